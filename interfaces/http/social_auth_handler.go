package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/infrastructure/logger"
	"social-hub/usecase"
)

type ISocialAuthHandler interface {
	Auth(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
	ListConnections(ctx *gin.Context)
}

type SocialAuthHandler struct {
	authUsecase usecase.ISocialAuthUsecase
}

func NewSocialAuthHandler(authUsecase usecase.ISocialAuthUsecase) ISocialAuthHandler {
	return &SocialAuthHandler{authUsecase: authUsecase}
}

// Auth handles both halves of the consent flow on one endpoint: action
// "connect" returns the authorization prompt, action "callback" completes
// the code exchange.
func (h *SocialAuthHandler) Auth(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dto.SocialAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch req.Action {
	case "connect":
		prompt, err := h.authUsecase.Connect(ctx.Request.Context(), userID, req.Platform)
		if err != nil {
			logger.GetLogger().WithField("platform", req.Platform).WithField("error", err.Error()).Warn("connect request failed")
			ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, prompt)
	case "callback":
		if err := h.authUsecase.Callback(ctx.Request.Context(), userID, req.Code, req.State); err != nil {
			logger.GetLogger().WithField("platform", req.Platform).WithField("error", err.Error()).Warn("oauth callback failed")
			ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
	}
}

// Disconnect deactivates the platform connection; already-disconnected is
// still a success.
func (h *SocialAuthHandler) Disconnect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dto.DisconnectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.authUsecase.Disconnect(ctx.Request.Context(), userID, req.Platform); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ListConnections returns the caller's active connections with secrets
// stripped (token fields are never serialized).
func (h *SocialAuthHandler) ListConnections(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	conns, err := h.authUsecase.ListConnections(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if conns == nil {
		conns = []*model.SocialConnection{}
	}
	ctx.JSON(http.StatusOK, gin.H{"connections": conns})
}
