package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-hub/domain/model"
	"social-hub/domain/repository"
)

// Mock implementations

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) Get(ctx context.Context, userID, platform string) (*model.SocialConnection, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SocialConnection), args.Error(1)
}

func (m *MockConnectionRepository) ListActive(ctx context.Context, userID string, platforms []string) ([]*model.SocialConnection, error) {
	args := m.Called(ctx, userID, platforms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SocialConnection), args.Error(1)
}

func (m *MockConnectionRepository) Upsert(ctx context.Context, conn *model.SocialConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) Deactivate(ctx context.Context, userID, platform string) error {
	args := m.Called(ctx, userID, platform)
	return args.Error(0)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Finalize(ctx context.Context, postID, status string, platformPostIDs, errorDetails map[string]string) error {
	args := m.Called(ctx, postID, status, platformPostIDs, errorDetails)
	return args.Error(0)
}

func (m *MockPostRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

type MockOAuthState struct {
	mock.Mock
}

func (m *MockOAuthState) Issue(ctx context.Context, userID, platform string) (string, error) {
	args := m.Called(ctx, userID, platform)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthState) Redeem(ctx context.Context, state string) (*model.OAuthState, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthState), args.Error(1)
}

type MockAdapter struct {
	mock.Mock
	platform string
}

func (m *MockAdapter) Platform() string { return m.platform }

func (m *MockAdapter) BuildAuthorizationURL(userID, state string) (*model.AuthorizationPrompt, error) {
	args := m.Called(userID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthorizationPrompt), args.Error(1)
}

func (m *MockAdapter) ExchangeCode(ctx context.Context, code string) (*model.PlatformCredential, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlatformCredential), args.Error(1)
}

func (m *MockAdapter) Publish(ctx context.Context, conn *model.SocialConnection, content, imageURL string) (string, error) {
	args := m.Called(ctx, conn, content, imageURL)
	return args.String(0), args.Error(1)
}

type MockPostEvents struct {
	mock.Mock
}

func (m *MockPostEvents) PublishPostSettled(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

// fakeRegistry resolves adapters from a fixed map; simpler than mocking
// two-value returns with testify.
type fakeRegistry struct {
	adapters map[string]repository.IPlatformAdapter
}

func newFakeRegistry(adapters ...repository.IPlatformAdapter) *fakeRegistry {
	r := &fakeRegistry{adapters: make(map[string]repository.IPlatformAdapter)}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

func (r *fakeRegistry) Get(platform string) (repository.IPlatformAdapter, bool) {
	a, ok := r.adapters[platform]
	return a, ok
}

func (r *fakeRegistry) Platforms() []string {
	out := make([]string, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	return out
}
