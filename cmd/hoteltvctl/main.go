// hoteltvctl is the operator CLI for the hotel TV server: account
// provisioning and ad-hoc screen adjustments from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/oyarzun/hoteltv/api/client"
	"github.com/oyarzun/hoteltv/auth"
	"github.com/oyarzun/hoteltv/category"
	"github.com/oyarzun/hoteltv/config"
	"github.com/oyarzun/hoteltv/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "hoteltvctl",
	Short: "Operate the hotel TV content server",
}

// useradd writes straight to the database so the very first account can be
// created without a token.
var userAddCmd = &cobra.Command{
	Use:   "useradd <username>",
	Short: "Create an admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		if len(password) == 0 {
			return fmt.Errorf("password must not be empty")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		db, err := store.NewFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		hash, err := auth.HashPassword(string(password))
		if err != nil {
			return err
		}
		user, err := db.CreateUser(username, hash)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate <category> <degrees>",
	Short: "Set the rotation for a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := args[0]
		if err := category.Validate(cat); err != nil {
			return err
		}
		degrees, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("degrees must be an integer: %w", err)
		}

		sc, err := loggedInClient(cmd.Context())
		if err != nil {
			return err
		}

		state, err := sc.SetRotation(cmd.Context(), cat, degrees)
		if err != nil {
			return err
		}
		fmt.Printf("Rotation for %s is now %d\n", state.Category, state.RotationDegrees)
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <category> <video-file>",
	Short: "Upload a video for a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := args[0]
		if err := category.Validate(cat); err != nil {
			return err
		}

		sc, err := loggedInClient(cmd.Context())
		if err != nil {
			return err
		}

		state, err := sc.UploadVideo(cmd.Context(), cat, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Video for %s is now %s\n", state.Category, state.VideoRef)
		return nil
	},
}

// login is a smoke check that the server is up and the credentials work.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify credentials against the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loggedInClient(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Login OK")
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category enumeration",
	Run: func(cmd *cobra.Command, args []string) {
		for _, cat := range category.All() {
			fmt.Println(cat)
		}
	},
}

// loggedInClient prompts for credentials and returns a client holding a
// fresh token.
func loggedInClient(ctx context.Context) (*client.ScreenClient, error) {
	fmt.Print("Username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil {
		return nil, fmt.Errorf("reading username: %w", err)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	sc := client.NewScreenClient(apiURL)
	if _, err := sc.Login(ctx, username, string(password)); err != nil {
		return nil, err
	}
	return sc, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:5000", "base URL of the hotel TV server")
	rootCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(categoriesCmd)
}
