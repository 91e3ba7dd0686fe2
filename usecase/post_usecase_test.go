package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/usecase"
)

func activeConnection(userID, platform string) *model.SocialConnection {
	return &model.SocialConnection{
		ID:             1,
		UserID:         userID,
		Platform:       platform,
		PlatformUserID: platform + "-uid",
		AccessToken:    "token-" + platform,
		IsActive:       true,
	}
}

func TestCreatePost_AllPlatformsSucceed(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	tg := &MockAdapter{platform: model.PlatformTelegram}
	registry := newFakeRegistry(fb, tg)

	conns := []*model.SocialConnection{
		activeConnection("42", model.PlatformFacebook),
		activeConnection("42", model.PlatformTelegram),
	}
	connRepo.On("ListActive", mock.Anything, "42", []string{"facebook", "telegram"}).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "hello world", "").Return("fb-post-1", nil)
	tg.On("Publish", mock.Anything, conns[1], "hello world", "").Return("123", nil)
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPosted,
		map[string]string{"facebook": "fb-post-1", "telegram": "123"},
		map[string]string{}).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)
	res, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "hello world",
		Platforms: []string{"facebook", "telegram"},
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, model.PostStatusPosted, res.Status)
	assert.Len(t, res.Results, 2)
	for _, r := range res.Results {
		assert.True(t, r.Success)
		assert.Empty(t, r.Error)
	}
	postRepo.AssertExpectations(t)
}

func TestCreatePost_AllPlatformsFail(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	tw := &MockAdapter{platform: model.PlatformTwitter}
	registry := newFakeRegistry(fb, tw)

	conns := []*model.SocialConnection{
		activeConnection("42", model.PlatformFacebook),
		activeConnection("42", model.PlatformTwitter),
	}
	connRepo.On("ListActive", mock.Anything, "42", mock.Anything).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "boom", "").Return("", model.RejectedBy("facebook", "token expired"))
	tw.On("Publish", mock.Anything, conns[1], "boom", "").Return("", model.RejectedBy("twitter", "duplicate content"))
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusFailed,
		map[string]string{},
		map[string]string{"facebook": "token expired", "twitter": "duplicate content"}).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)
	res, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "boom",
		Platforms: []string{"facebook", "twitter"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.PostStatusFailed, res.Status)
	for _, r := range res.Results {
		assert.False(t, r.Success)
		assert.NotEmpty(t, r.Error)
	}
	postRepo.AssertExpectations(t)
}

func TestCreatePost_MixedOutcomeIsPartial(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	ig := &MockAdapter{platform: model.PlatformInstagram}
	registry := newFakeRegistry(fb, ig)

	conns := []*model.SocialConnection{
		activeConnection("7", model.PlatformFacebook),
		activeConnection("7", model.PlatformInstagram),
	}
	connRepo.On("ListActive", mock.Anything, "7", mock.Anything).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "mixed", "").Return("fb-9", nil)
	ig.On("Publish", mock.Anything, conns[1], "mixed", "").
		Return("", model.UnsupportedContent("instagram", "instagram requires an image"))
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPartial,
		map[string]string{"facebook": "fb-9"},
		map[string]string{"instagram": "instagram requires an image"}).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)
	res, err := uc.CreatePost(context.Background(), "7", dto.CreatePostRequest{
		Content:   "mixed",
		Platforms: []string{"facebook", "instagram"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPartial, res.Status)
	postRepo.AssertExpectations(t)
}

func TestCreatePost_UnconnectedPlatformsSilentlyDropped(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	tg := &MockAdapter{platform: model.PlatformTelegram}
	tw := &MockAdapter{platform: model.PlatformTwitter}
	registry := newFakeRegistry(fb, tg, tw)

	// twitter requested but not connected; only facebook and telegram resolve
	conns := []*model.SocialConnection{
		activeConnection("42", model.PlatformFacebook),
		activeConnection("42", model.PlatformTelegram),
	}
	connRepo.On("ListActive", mock.Anything, "42", []string{"facebook", "twitter", "telegram"}).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "dropped", "").Return("fb-1", nil)
	tg.On("Publish", mock.Anything, conns[1], "dropped", "").Return("55", nil)
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPosted, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)
	res, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "dropped",
		Platforms: []string{"facebook", "twitter", "telegram"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPosted, res.Status)
	assert.Len(t, res.Results, 2)
	for _, r := range res.Results {
		assert.NotEqual(t, model.PlatformTwitter, r.Platform)
	}
	tw.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_EmptyContentRejectedBeforePersist(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	registry := newFakeRegistry()

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
			Content:   content,
			Platforms: []string{"facebook"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrValidation)
	}
	postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	connRepo.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_NoPlatformsRejected(t *testing.T) {
	uc := usecase.NewPostUsecase(new(MockPostRepository), new(MockConnectionRepository), newFakeRegistry(), nil, time.Second)

	_, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{Content: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreatePost_NoActiveConnections(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	registry := newFakeRegistry(&MockAdapter{platform: model.PlatformFacebook})

	connRepo.On("ListActive", mock.Anything, "42", mock.Anything).Return([]*model.SocialConnection{}, nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)
	_, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "nobody home",
		Platforms: []string{"facebook"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoActiveConnections)
	postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_SlowPlatformTimesOutWithoutBlockingSiblings(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	tg := &MockAdapter{platform: model.PlatformTelegram}
	registry := newFakeRegistry(fb, tg)

	conns := []*model.SocialConnection{
		activeConnection("42", model.PlatformFacebook),
		activeConnection("42", model.PlatformTelegram),
	}
	connRepo.On("ListActive", mock.Anything, "42", mock.Anything).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "slow", "").
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.DeadlineExceeded)
	tg.On("Publish", mock.Anything, conns[1], "slow", "").Return("88", nil)
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPartial,
		map[string]string{"telegram": "88"},
		map[string]string{"facebook": "publish timed out"}).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, 50*time.Millisecond)
	res, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "slow",
		Platforms: []string{"facebook", "telegram"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPartial, res.Status)
	postRepo.AssertExpectations(t)
}

func TestCreatePost_NormalizesAndDeduplicatesPlatforms(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	registry := newFakeRegistry(fb)

	conns := []*model.SocialConnection{activeConnection("42", model.PlatformFacebook)}
	connRepo.On("ListActive", mock.Anything, "42", []string{"facebook"}).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "dup", "").Return("fb-1", nil)
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPosted, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, nil, time.Second)
	res, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "dup",
		Platforms: []string{"Facebook", " facebook ", "FACEBOOK"},
	})

	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
	connRepo.AssertExpectations(t)
}

func TestCreatePost_PublishesSettledEvent(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	postEvents := new(MockPostEvents)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	registry := newFakeRegistry(fb)

	conns := []*model.SocialConnection{activeConnection("42", model.PlatformFacebook)}
	connRepo.On("ListActive", mock.Anything, "42", mock.Anything).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "evt", "").Return("fb-1", nil)
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPosted, mock.Anything, mock.Anything).Return(nil)
	postEvents.On("PublishPostSettled", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.Status == model.PostStatusPosted
	})).Return(nil)

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, postEvents, time.Second)
	_, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "evt",
		Platforms: []string{"facebook"},
	})

	require.NoError(t, err)
	postEvents.AssertExpectations(t)
}

func TestCreatePost_EventFailureDoesNotFailRequest(t *testing.T) {
	connRepo := new(MockConnectionRepository)
	postRepo := new(MockPostRepository)
	postEvents := new(MockPostEvents)
	fb := &MockAdapter{platform: model.PlatformFacebook}
	registry := newFakeRegistry(fb)

	conns := []*model.SocialConnection{activeConnection("42", model.PlatformFacebook)}
	connRepo.On("ListActive", mock.Anything, "42", mock.Anything).Return(conns, nil)
	postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	fb.On("Publish", mock.Anything, conns[0], "evt", "").Return("fb-1", nil)
	postRepo.On("Finalize", mock.Anything, mock.Anything, model.PostStatusPosted, mock.Anything, mock.Anything).Return(nil)
	postEvents.On("PublishPostSettled", mock.Anything, mock.Anything).Return(errors.New("pubsub down"))

	uc := usecase.NewPostUsecase(postRepo, connRepo, registry, postEvents, time.Second)
	res, err := uc.CreatePost(context.Background(), "42", dto.CreatePostRequest{
		Content:   "evt",
		Platforms: []string{"facebook"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPosted, res.Status)
}

func TestListPosts(t *testing.T) {
	postRepo := new(MockPostRepository)
	posts := []*model.Post{{ID: "p1", UserID: "42", Status: model.PostStatusPosted}}
	postRepo.On("ListByUser", mock.Anything, "42", 20).Return(posts, nil)

	uc := usecase.NewPostUsecase(postRepo, new(MockConnectionRepository), newFakeRegistry(), nil, time.Second)
	got, err := uc.ListPosts(context.Background(), "42", 20)

	require.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestDeriveStatus(t *testing.T) {
	ok := model.PublishResult{Platform: "facebook", Success: true}
	bad := model.PublishResult{Platform: "twitter", Error: "nope"}

	assert.Equal(t, model.PostStatusPosted, model.DeriveStatus([]model.PublishResult{ok, ok}))
	assert.Equal(t, model.PostStatusPartial, model.DeriveStatus([]model.PublishResult{ok, bad}))
	assert.Equal(t, model.PostStatusFailed, model.DeriveStatus([]model.PublishResult{bad, bad}))
	assert.Equal(t, model.PostStatusFailed, model.DeriveStatus(nil))
}
