// The screen daemon binds one display device to one category and keeps its
// playback in sync with the server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oyarzun/hoteltv/api/client"
	"github.com/oyarzun/hoteltv/player"
	"github.com/oyarzun/hoteltv/screen"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "screen",
	Short: "Hotel TV display daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := screen.ReadConfigFromFile(configPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		apiClient := client.NewScreenClient(cfg.APIURL)
		display := player.New(
			cfg.Player.Binary,
			cfg.Player.Args,
			cfg.Output.Name,
			cfg.Output.ManageRotation,
		)

		interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
		poller := screen.NewPoller(apiClient, apiClient, display, interval)

		sub := poller.Bind(cfg.Category)
		slog.Info("screen bound", "category", cfg.Category, "api", cfg.APIURL, "interval", interval)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down, unbinding screen", "category", cfg.Category)
		sub.Stop()
		return display.ClearSource()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "/etc/hoteltv/screen.toml", "path to the screen config file")
}
