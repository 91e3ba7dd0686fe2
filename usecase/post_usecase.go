package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/events"
	"social-hub/infrastructure/logger"
	"social-hub/infrastructure/realtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// IPostUsecase is the publish orchestrator: one logical post fanned out to
// every requested platform with an active connection.
type IPostUsecase interface {
	CreatePost(ctx context.Context, userID string, req dto.CreatePostRequest) (*dto.CreatePostResponse, error)
	ListPosts(ctx context.Context, userID string, limit int) ([]*model.Post, error)
}

// PostUsecase dispatches adapter calls concurrently and aggregates their
// outcomes into one immutable post record.
type PostUsecase struct {
	postRepo       repository.IPost
	connRepo       repository.ISocialConnection
	registry       repository.IPlatformRegistry
	postEvents     events.IPostEvents
	broadcast      func(userID string, evt realtime.PostStatusEvent)
	publishTimeout time.Duration
}

func NewPostUsecase(postRepo repository.IPost, connRepo repository.ISocialConnection, registry repository.IPlatformRegistry, postEvents events.IPostEvents, publishTimeout time.Duration) *PostUsecase {
	if publishTimeout <= 0 {
		publishTimeout = 15 * time.Second
	}
	return &PostUsecase{
		postRepo:       postRepo,
		connRepo:       connRepo,
		registry:       registry,
		postEvents:     postEvents,
		broadcast:      func(string, realtime.PostStatusEvent) {},
		publishTimeout: publishTimeout,
	}
}

// SetBroadcaster installs the per-platform status callback (SSE hub).
func (u *PostUsecase) SetBroadcaster(b func(userID string, evt realtime.PostStatusEvent)) {
	if b != nil {
		u.broadcast = b
	}
}

// CreatePost validates the request, records a pending post, dispatches to
// every resolved connection and finalizes the record exactly once.
//
// Requested platforms without an active connection are silently dropped
// from the attempt set: they were never valid targets, so they show up
// neither as successes nor as failures. Only when nothing resolves does
// the call fail, before any post row is written.
func (u *PostUsecase) CreatePost(ctx context.Context, userID string, req dto.CreatePostRequest) (*dto.CreatePostResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ValidationError("content is required")
	}
	if len(req.Platforms) == 0 {
		return nil, model.ValidationError("platforms are required")
	}
	platforms := normalizePlatforms(req.Platforms)

	conns, err := u.connRepo.ListActive(ctx, userID, platforms)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, model.ErrNoActiveConnections
	}

	post := &model.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Platforms: platforms,
		Status:    model.PostStatusPending,
	}
	if req.ImageURL != "" {
		imageURL := req.ImageURL
		post.ImageURL = &imageURL
	}
	if err := u.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Fan out. Dispatches are independent: a slow or failing platform
	// never blocks or aborts its siblings, and aggregation waits for all
	// of them to settle.
	results := make([]model.PublishResult, len(conns))
	g := new(errgroup.Group)
	for i, conn := range conns {
		i, conn := i, conn
		g.Go(func() error {
			results[i] = u.dispatch(ctx, post.ID, conn, content, req.ImageURL)
			return nil
		})
	}
	_ = g.Wait()

	platformPostIDs := make(map[string]string)
	errorDetails := make(map[string]string)
	for _, r := range results {
		if r.Success {
			platformPostIDs[r.Platform] = r.ProviderPostID
		} else {
			errorDetails[r.Platform] = r.Error
		}
	}
	status := model.DeriveStatus(results)

	if err := u.postRepo.Finalize(ctx, post.ID, status, platformPostIDs, errorDetails); err != nil {
		logger.GetLogger().WithField("post_id", post.ID).WithField("error", err).Error("failed to finalize post record")
	}
	post.Status = status
	post.PlatformPostIDs = platformPostIDs
	post.ErrorDetails = errorDetails

	if u.postEvents != nil {
		if err := u.postEvents.PublishPostSettled(ctx, post); err != nil {
			logger.GetLogger().WithField("post_id", post.ID).WithField("error", err).Warn("post event publish failed")
		}
	}
	u.broadcast(userID, realtime.PostStatusEvent{Type: "post_settled", PostID: post.ID, Status: status})

	return &dto.CreatePostResponse{
		Success: true,
		Results: results,
		PostID:  post.ID,
		Status:  status,
	}, nil
}

// dispatch runs one platform's publish under its own timeout and converts
// the outcome into a result row; errors are captured, never propagated.
func (u *PostUsecase) dispatch(ctx context.Context, postID string, conn *model.SocialConnection, content, imageURL string) model.PublishResult {
	result := model.PublishResult{Platform: conn.Platform}

	adapter, ok := u.registry.Get(conn.Platform)
	if !ok {
		result.Error = "unsupported platform: " + conn.Platform
		u.notify(postID, conn, result)
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, u.publishTimeout)
	defer cancel()
	providerID, err := adapter.Publish(callCtx, conn, content, imageURL)
	if err != nil {
		result.Error = publishErrorMessage(err)
		logger.GetLogger().
			WithField("post_id", postID).
			WithField("platform", conn.Platform).
			WithField("error", result.Error).
			Warn("platform publish failed")
		u.notify(postID, conn, result)
		return result
	}

	result.Success = true
	result.ProviderPostID = providerID
	u.notify(postID, conn, result)
	return result
}

func (u *PostUsecase) notify(postID string, conn *model.SocialConnection, r model.PublishResult) {
	status := "failed"
	if r.Success {
		status = "success"
	}
	u.broadcast(conn.UserID, realtime.PostStatusEvent{
		Type:           "platform_result",
		PostID:         postID,
		Platform:       r.Platform,
		Status:         status,
		ProviderPostID: r.ProviderPostID,
		Error:          r.Error,
	})
}

func (u *PostUsecase) ListPosts(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	return u.postRepo.ListByUser(ctx, userID, limit)
}

// publishErrorMessage keeps the provider's own text for rejections and
// normalizes timeouts; errorDetails stays human readable either way.
func publishErrorMessage(err error) string {
	var platformErr *model.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "publish timed out"
	}
	return err.Error()
}

func normalizePlatforms(platforms []string) []string {
	seen := make(map[string]struct{}, len(platforms))
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
