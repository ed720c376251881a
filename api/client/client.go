// Package client is a typed HTTP client for the hotel TV API, used by the
// screen daemon and the operator CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oyarzun/hoteltv/api/models"
	"github.com/oyarzun/hoteltv/store"
)

type ScreenClient struct {
	baseURL string
	client  *http.Client

	// token gates mutation calls; read calls never need one.
	token string
}

func NewScreenClient(baseURL string) *ScreenClient {
	return &ScreenClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (sc *ScreenClient) SetToken(token string) {
	sc.token = token
}

// GetScreen fetches the current state row for a category. The server
// auto-creates the row on first sight, so this never 404s for a known
// category.
func (sc *ScreenClient) GetScreen(ctx context.Context, cat string) (*store.ScreenState, error) {
	url := fmt.Sprintf("%s/api/screen/%s", sc.baseURL, cat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var state store.ScreenState
	if err := sc.do(req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Login exchanges credentials for a bearer token and installs it on the
// client for subsequent mutation calls.
func (sc *ScreenClient) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/auth/login", sc.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp models.LoginResponse
	if err := sc.do(req, &resp); err != nil {
		return "", err
	}
	sc.token = resp.Token
	return resp.Token, nil
}

// SetRotation stores a new rotation for a category and returns the
// resulting row.
func (sc *ScreenClient) SetRotation(ctx context.Context, cat string, degrees int) (*store.ScreenState, error) {
	body, err := json.Marshal(models.RotationRequest{Rotation: degrees})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/rotation/%s", sc.baseURL, cat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var state store.ScreenState
	if err := sc.do(req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// UploadVideo streams a local video file to the upload endpoint as a
// multipart form.
func (sc *ScreenClient) UploadVideo(ctx context.Context, cat, videoPath string) (*store.ScreenState, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("video", filepath.Base(videoPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read video file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/api/upload/%s", sc.baseURL, cat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp models.UploadResponse
	if err := sc.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Screen, nil
}

func (sc *ScreenClient) do(req *http.Request, out any) error {
	if sc.token != "" {
		req.Header.Set("Authorization", "Bearer "+sc.token)
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
