// Package server exposes the agent over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/agent/contract"
)

type Config struct {
	Port         string   `envconfig:"PORT" split_words:"true" default:"8080"`
	AllowOrigins []string `envconfig:"ALLOW_ORIGINS" split_words:"true" default:"*"`
	Debug        bool     `envconfig:"DEBUG" split_words:"true" default:"false"`
}

// ChatService is what the transport needs from the agent.
type ChatService interface {
	HandleMessage(ctx context.Context, userID, message string) (contractx.AgentResponse, error)
}

type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type Handler struct {
	agent ChatService
}

func NewHandler(agent ChatService) *Handler {
	return &Handler{agent: agent}
}

func NewRouter(h *Handler, cfg Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-User-ID")
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", h.Health)
	r.POST("/chat", h.Chat)
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Chat handles one agent turn. The identity comes from the session header
// with the request-body user_id as fallback; without it no context is built
// and the caller is told to sign in.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if userID == "" {
		userID = strings.TrimSpace(req.UserID)
	}
	if userID == "" {
		c.JSON(http.StatusUnauthorized, contractx.AgentResponse{
			Content: "Please sign in to chat with your store assistant.",
			Intent:  contractx.IntentGeneralQuery,
			Steps:   []string{},
		})
		return
	}

	resp, err := h.agent.HandleMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, contractx.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "a message is required"})
		case errors.Is(err, contractx.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		default:
			log.Error().Err(err).Str("user_id", userID).Msg("chat turn failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
