// Package models tracks all api models for request and responses
package models

import "github.com/oyarzun/hoteltv/store"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type RotationRequest struct {
	Rotation int `json:"rotation"`
}

type UploadResponse struct {
	Success bool              `json:"success"`
	Screen  store.ScreenState `json:"screen"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
