// Package api is the main api web server
package api

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oyarzun/hoteltv/api/models"
	"github.com/oyarzun/hoteltv/auth"
	"github.com/oyarzun/hoteltv/category"
	"github.com/oyarzun/hoteltv/media"
	"github.com/oyarzun/hoteltv/screens"
)

type WebServer struct {
	router  *gin.Engine
	service *screens.Service
	authn   *auth.Authenticator

	// uploadsDir is served statically when the local media backend is
	// active; empty for remote backends.
	uploadsDir     string
	maxUploadBytes int64
}

func NewWebServer(service *screens.Service, authn *auth.Authenticator, uploadsDir string, maxUploadBytes int64) *WebServer {
	router := gin.Default()

	ws := &WebServer{
		router:         router,
		service:        service,
		authn:          authn,
		uploadsDir:     uploadsDir,
		maxUploadBytes: maxUploadBytes,
	}

	ws.setupRoutes()

	return ws
}

func (ws *WebServer) setupRoutes() {
	ws.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hotel TV API is running")
	})

	// API routes
	ws.router.GET("/api/screen/:category", ws.handleGetScreen)
	ws.router.POST("/api/rotation/:category", ws.requireAuth, ws.handleSetRotation)
	ws.router.POST("/api/upload/:category", ws.requireAuth, ws.handleUpload)
	ws.router.POST("/api/auth/login", ws.handleLogin)

	// Static video delivery for the local media backend
	if ws.uploadsDir != "" {
		ws.router.Static("/uploads", ws.uploadsDir)
	}
}

func (ws *WebServer) Start(addr string) {
	log.Printf("Starting web server on %s", addr)
	if err := ws.router.Run(addr); err != nil {
		log.Fatalf("Failed to start web server: %v", err)
	}
}

// Handler exposes the router for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// requireAuth gates mutation endpoints behind a bearer token: 401 when the
// header is absent, 403 when the token doesn't verify.
func (ws *WebServer) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Missing bearer token"})
		return
	}

	claims, err := ws.authn.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "Invalid or expired token"})
		return
	}

	c.Set("username", claims.Username)
	c.Next()
}

func (ws *WebServer) handleGetScreen(c *gin.Context) {
	cat := c.Param("category")

	state, err := ws.service.GetState(cat)
	if errors.Is(err, category.ErrUnknown) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (ws *WebServer) handleSetRotation(c *gin.Context) {
	cat := c.Param("category")

	var req models.RotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	state, err := ws.service.SetRotation(cat, req.Rotation)
	if errors.Is(err, category.ErrUnknown) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, screens.ErrInvalidRotation) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update rotation: %v", err)})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (ws *WebServer) handleUpload(c *gin.Context) {
	cat := c.Param("category")
	if err := category.Validate(cat); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No video file provided"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if err := media.ValidateUpload(file.Filename, contentType, file.Size, ws.maxUploadBytes); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, media.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, models.ErrorResponse{Error: err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to read upload: %v", err)})
		return
	}
	defer src.Close()

	state, err := ws.service.SetVideo(c.Request.Context(), cat, file.Filename, src, file.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to store video: %v", err)})
		return
	}

	slog.Info("video uploaded", "category", cat, "ref", state.VideoRef, "by", c.GetString("username"))
	c.JSON(http.StatusOK, models.UploadResponse{
		Success: true,
		Screen:  *state,
	})
}

func (ws *WebServer) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Username and password are required"})
		return
	}

	token, err := ws.authn.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Login failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:    token,
		Username: req.Username,
	})
}
