package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/infrastructure/logger"
	"social-hub/usecase"
)

type IPostHandler interface {
	CreatePost(ctx *gin.Context)
	ListPosts(ctx *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
}

func NewPostHandler(postUsecase usecase.IPostUsecase) IPostHandler {
	return &PostHandler{postUsecase: postUsecase}
}

// CreatePost publishes one piece of content to every requested platform.
// Once a post record exists the response is always 200 with itemized
// results; only pre-dispatch validation failures get an error status.
func (h *PostHandler) CreatePost(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.postUsecase.CreatePost(ctx.Request.Context(), userID, req)
	if err != nil {
		logger.GetLogger().WithField("user_id", userID).WithField("error", err.Error()).Warn("create post rejected")
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// ListPosts returns the caller's publish history, newest first.
func (h *PostHandler) ListPosts(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	limit := 20
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	posts, err := h.postUsecase.ListPosts(ctx.Request.Context(), userID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	ctx.JSON(http.StatusOK, gin.H{"posts": posts})
}
