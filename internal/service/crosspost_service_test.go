package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/crosspost"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/pkg/cache"
	"github.com/blognest/blognest-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitStructured("test")
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(id uint64) (*domain.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(slug string) (*domain.Post, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) List(page, limit int) ([]*domain.Post, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]*domain.Post), args.Get(1).(int64), args.Error(2)
}

// MockTargetRepository is a mock implementation of TargetRepository
type MockTargetRepository struct {
	mock.Mock
}

func (m *MockTargetRepository) FindByContentID(contentID uint64) ([]domain.CrosspostTarget, error) {
	args := m.Called(contentID)
	return args.Get(0).([]domain.CrosspostTarget), args.Error(1)
}

func (m *MockTargetRepository) FindEnabledByContentID(contentID uint64) ([]domain.CrosspostTarget, error) {
	args := m.Called(contentID)
	return args.Get(0).([]domain.CrosspostTarget), args.Error(1)
}

func (m *MockTargetRepository) Upsert(target *domain.CrosspostTarget) error {
	args := m.Called(target)
	return args.Error(0)
}

func (m *MockTargetRepository) Delete(contentID uint64, platform domain.Platform) error {
	args := m.Called(contentID, platform)
	return args.Error(0)
}

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindByPlatform(platform domain.Platform) (*domain.PlatformCredential, error) {
	args := m.Called(platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlatformCredential), args.Error(1)
}

func (m *MockCredentialRepository) FindAll() ([]domain.PlatformCredential, error) {
	args := m.Called()
	return args.Get(0).([]domain.PlatformCredential), args.Error(1)
}

func (m *MockCredentialRepository) Upsert(cred *domain.PlatformCredential) error {
	args := m.Called(cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) SetActive(platform domain.Platform, active bool) error {
	args := m.Called(platform, active)
	return args.Error(0)
}

func (m *MockCredentialRepository) TouchLastUsed(platform domain.Platform, at time.Time) error {
	args := m.Called(platform, at)
	return args.Error(0)
}

// MockDeliveryRepository is a mock implementation of DeliveryRepository
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) Find(contentID uint64, platform domain.Platform) (*domain.DeliveryRecord, error) {
	args := m.Called(contentID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRecord), args.Error(1)
}

func (m *MockDeliveryRepository) FindByContentID(contentID uint64) ([]domain.DeliveryRecord, error) {
	args := m.Called(contentID)
	return args.Get(0).([]domain.DeliveryRecord), args.Error(1)
}

func (m *MockDeliveryRepository) RecordAttempt(rec *domain.DeliveryRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// stubPublisher records calls and returns a fixed outcome
type stubPublisher struct {
	platform domain.Platform
	outcome  crosspost.Outcome

	mu       sync.Mutex
	calls    int
	payloads []crosspost.Payload
}

func (p *stubPublisher) Platform() domain.Platform { return p.platform }

func (p *stubPublisher) Publish(_ context.Context, payload crosspost.Payload, _ crosspost.Credentials) crosspost.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.payloads = append(p.payloads, payload)
	return p.outcome
}

type crosspostFixture struct {
	posts   *MockPostRepository
	targets *MockTargetRepository
	creds   *MockCredentialRepository
	ledger  *MockDeliveryRepository
	vault   *crosspost.Vault
	stubs   map[domain.Platform]*stubPublisher
	svc     CrosspostService
}

func newCrosspostFixture(t *testing.T) *crosspostFixture {
	t.Helper()

	vault, err := crosspost.NewVault("fixture-secret")
	require.NoError(t, err)

	f := &crosspostFixture{
		posts:   new(MockPostRepository),
		targets: new(MockTargetRepository),
		creds:   new(MockCredentialRepository),
		ledger:  new(MockDeliveryRepository),
		vault:   vault,
		stubs:   make(map[domain.Platform]*stubPublisher),
	}

	registry := crosspost.Registry{}
	for _, p := range domain.AllPlatforms {
		stub := &stubPublisher{
			platform: p,
			outcome:  crosspost.Outcome{Success: true, PlatformPostID: "post-" + string(p), PostURL: "https://" + string(p) + ".example/post"},
		}
		f.stubs[p] = stub
		registry[p] = stub
	}

	f.svc = NewCrosspostService(
		f.posts, f.targets, f.creds, f.ledger,
		vault, registry, cache.NewService(nil),
		CrosspostConfig{PublishTimeout: time.Second, Workers: 2, MaxRetries: 5},
	)
	return f
}

func (f *crosspostFixture) activeCredential(t *testing.T, platform domain.Platform) *domain.PlatformCredential {
	t.Helper()
	blob, err := f.vault.Encrypt("token-" + string(platform))
	require.NoError(t, err)
	cfg := `{"webhook_url":"https://discord.example/hook","page_id":"pg","business_account_id":"ig"}`
	return &domain.PlatformCredential{
		Platform:    platform,
		IsActive:    true,
		AccessToken: blob,
		Config:      &cfg,
	}
}

func fixturePost() *domain.Post {
	img := "https://cdn.blognest.io/cover.jpg"
	return &domain.Post{
		ID:             7,
		Title:          "A Post",
		Excerpt:        "Excerpt text",
		Tags:           "go,backend",
		AuthorName:     "Mina",
		CanonicalURL:   "https://blognest.io/posts/a-post",
		InstagramImage: &img,
		Status:         "published",
	}
}

func TestPublishPartialFailure(t *testing.T) {
	f := newCrosspostFixture(t)

	enabled := []domain.CrosspostTarget{
		{ContentID: 7, Platform: domain.PlatformTwitter, Enabled: true},
		{ContentID: 7, Platform: domain.PlatformFacebook, Enabled: true},
		{ContentID: 7, Platform: domain.PlatformDiscord, Enabled: true},
	}

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindEnabledByContentID", uint64(7)).Return(enabled, nil)
	f.ledger.On("Find", uint64(7), mock.Anything).Return(nil, nil)
	f.ledger.On("RecordAttempt", mock.Anything).Return(nil)

	f.creds.On("FindByPlatform", domain.PlatformTwitter).Return(f.activeCredential(t, domain.PlatformTwitter), nil)
	f.creds.On("FindByPlatform", domain.PlatformFacebook).Return(f.activeCredential(t, domain.PlatformFacebook), nil)
	// Discord has no credential at all
	f.creds.On("FindByPlatform", domain.PlatformDiscord).Return(nil, nil)
	f.creds.On("TouchLastUsed", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{ContentID: 7})
	require.NoError(t, err)

	assert.False(t, resp.OverallSuccess)
	assert.Equal(t, domain.CrosspostSummary{Total: 3, Success: 2, Failed: 1}, resp.Summary)

	assert.True(t, resp.Results[domain.PlatformTwitter].Success)
	assert.True(t, resp.Results[domain.PlatformFacebook].Success)
	discord := resp.Results[domain.PlatformDiscord]
	assert.False(t, discord.Success)
	assert.Contains(t, discord.Error, "credential")

	// The failed platform still produced a ledger write
	failedWrites := 0
	for _, call := range f.ledger.Calls {
		if call.Method != "RecordAttempt" {
			continue
		}
		rec := call.Arguments.Get(0).(*domain.DeliveryRecord)
		if rec.Platform == domain.PlatformDiscord {
			failedWrites++
			assert.Equal(t, domain.DeliveryFailed, rec.Status)
			require.NotNil(t, rec.ErrorMessage)
		}
	}
	assert.Equal(t, 1, failedWrites)

	// Discord publisher never reached
	assert.Zero(t, f.stubs[domain.PlatformDiscord].calls)
	assert.Equal(t, 1, f.stubs[domain.PlatformTwitter].calls)
}

func TestPublishIdempotentSkip(t *testing.T) {
	f := newCrosspostFixture(t)

	postID := "tw-already"
	postURL := "https://twitter.com/i/web/status/tw-already"
	existing := &domain.DeliveryRecord{
		ContentID:      7,
		Platform:       domain.PlatformTwitter,
		Status:         domain.DeliverySuccess,
		PlatformPostID: &postID,
		PostURL:        &postURL,
		RetryCount:     1,
	}

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindByContentID", uint64(7)).Return([]domain.CrosspostTarget{}, nil)
	f.ledger.On("Find", uint64(7), domain.PlatformTwitter).Return(existing, nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID: 7,
		Platforms: []domain.Platform{domain.PlatformTwitter},
	})
	require.NoError(t, err)

	assert.True(t, resp.OverallSuccess)
	result := resp.Results[domain.PlatformTwitter]
	assert.True(t, result.Success)
	assert.True(t, result.Skipped)
	assert.Equal(t, "tw-already", result.PlatformPostID)
	assert.Equal(t, postURL, result.PostURL)

	// No publish, no ledger write, no credential fetch
	assert.Zero(t, f.stubs[domain.PlatformTwitter].calls)
	f.ledger.AssertNotCalled(t, "RecordAttempt", mock.Anything)
	f.creds.AssertNotCalled(t, "FindByPlatform", mock.Anything)
}

func TestPublishExplicitEmptyPlatformList(t *testing.T) {
	f := newCrosspostFixture(t)

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindByContentID", uint64(7)).Return([]domain.CrosspostTarget{
		{ContentID: 7, Platform: domain.PlatformTwitter, Enabled: true},
	}, nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID: 7,
		Platforms: []domain.Platform{},
	})
	require.NoError(t, err)

	assert.True(t, resp.OverallSuccess)
	assert.Empty(t, resp.Results)
	assert.Equal(t, domain.CrosspostSummary{}, resp.Summary)
	f.ledger.AssertNotCalled(t, "RecordAttempt", mock.Anything)
}

func TestPublishRequestValidation(t *testing.T) {
	f := newCrosspostFixture(t)

	_, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	f.posts.On("FindByID", uint64(404)).Return(nil, common.ErrPostNotFound)
	_, err = f.svc.Publish(context.Background(), &domain.CrosspostRequest{ContentID: 404})
	assert.ErrorIs(t, err, common.ErrPostNotFound)
}

func TestPublishCustomMessagePrecedence(t *testing.T) {
	f := newCrosspostFixture(t)

	storedMsg := "stored target message"
	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindEnabledByContentID", uint64(7)).Return([]domain.CrosspostTarget{
		{ContentID: 7, Platform: domain.PlatformTwitter, Enabled: true, CustomMessage: &storedMsg},
		{ContentID: 7, Platform: domain.PlatformFacebook, Enabled: true, CustomMessage: &storedMsg},
	}, nil)
	f.ledger.On("Find", uint64(7), mock.Anything).Return(nil, nil)
	f.ledger.On("RecordAttempt", mock.Anything).Return(nil)
	f.creds.On("FindByPlatform", domain.PlatformTwitter).Return(f.activeCredential(t, domain.PlatformTwitter), nil)
	f.creds.On("FindByPlatform", domain.PlatformFacebook).Return(f.activeCredential(t, domain.PlatformFacebook), nil)
	f.creds.On("TouchLastUsed", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID:      7,
		CustomMessages: map[domain.Platform]string{domain.PlatformTwitter: "request override"},
	})
	require.NoError(t, err)

	// Request override beats the stored message; stored message beats the title
	twitter := f.stubs[domain.PlatformTwitter]
	require.Len(t, twitter.payloads, 1)
	assert.Contains(t, twitter.payloads[0].Text, "request override")

	facebook := f.stubs[domain.PlatformFacebook]
	require.Len(t, facebook.payloads, 1)
	assert.Contains(t, facebook.payloads[0].Text, storedMsg)
}

func TestPublishInactiveCredential(t *testing.T) {
	f := newCrosspostFixture(t)

	cred := f.activeCredential(t, domain.PlatformFacebook)
	cred.IsActive = false

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindByContentID", uint64(7)).Return([]domain.CrosspostTarget{}, nil)
	f.ledger.On("Find", uint64(7), domain.PlatformFacebook).Return(nil, nil)
	f.ledger.On("RecordAttempt", mock.Anything).Return(nil)
	f.creds.On("FindByPlatform", domain.PlatformFacebook).Return(cred, nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID: 7,
		Platforms: []domain.Platform{domain.PlatformFacebook},
	})
	require.NoError(t, err)

	result := resp.Results[domain.PlatformFacebook]
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "inactive")
	assert.Zero(t, f.stubs[domain.PlatformFacebook].calls)
}

func TestPublishDecryptionFailure(t *testing.T) {
	f := newCrosspostFixture(t)

	cred := f.activeCredential(t, domain.PlatformTwitter)
	cred.AccessToken = "not-a-valid-blob"

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindByContentID", uint64(7)).Return([]domain.CrosspostTarget{}, nil)
	f.ledger.On("Find", uint64(7), domain.PlatformTwitter).Return(nil, nil)
	f.ledger.On("RecordAttempt", mock.Anything).Return(nil)
	f.creds.On("FindByPlatform", domain.PlatformTwitter).Return(cred, nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID: 7,
		Platforms: []domain.Platform{domain.PlatformTwitter},
	})
	require.NoError(t, err)

	result := resp.Results[domain.PlatformTwitter]
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "decryption")
	assert.Zero(t, f.stubs[domain.PlatformTwitter].calls)
}

func TestPublishRetryLimit(t *testing.T) {
	f := newCrosspostFixture(t)

	errMsg := "remote 500"
	exhausted := &domain.DeliveryRecord{
		ContentID:    7,
		Platform:     domain.PlatformDiscord,
		Status:       domain.DeliveryFailed,
		ErrorMessage: &errMsg,
		RetryCount:   5,
	}

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindByContentID", uint64(7)).Return([]domain.CrosspostTarget{}, nil)
	f.ledger.On("Find", uint64(7), domain.PlatformDiscord).Return(exhausted, nil)
	f.ledger.On("RecordAttempt", mock.Anything).Return(nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID: 7,
		Platforms: []domain.Platform{domain.PlatformDiscord},
	})
	require.NoError(t, err)

	result := resp.Results[domain.PlatformDiscord]
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "retry limit")
	assert.Zero(t, f.stubs[domain.PlatformDiscord].calls)
	f.creds.AssertNotCalled(t, "FindByPlatform", mock.Anything)
}

func TestPublishUnknownPlatformIsolated(t *testing.T) {
	f := newCrosspostFixture(t)

	f.posts.On("FindByID", uint64(7)).Return(fixturePost(), nil)
	f.targets.On("FindByContentID", uint64(7)).Return([]domain.CrosspostTarget{}, nil)
	f.ledger.On("Find", uint64(7), mock.Anything).Return(nil, nil)
	f.ledger.On("RecordAttempt", mock.Anything).Return(nil)
	f.creds.On("FindByPlatform", domain.PlatformTwitter).Return(f.activeCredential(t, domain.PlatformTwitter), nil)
	f.creds.On("FindByPlatform", domain.Platform("myspace")).Return(f.activeCredential(t, "myspace"), nil)
	f.creds.On("TouchLastUsed", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Publish(context.Background(), &domain.CrosspostRequest{
		ContentID: 7,
		Platforms: []domain.Platform{domain.PlatformTwitter, "MySpace"},
	})
	require.NoError(t, err)

	assert.False(t, resp.OverallSuccess)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.True(t, resp.Results[domain.PlatformTwitter].Success)

	unknown := resp.Results[domain.Platform("myspace")]
	assert.False(t, unknown.Success)
	assert.Contains(t, unknown.Error, "unsupported platform")
}

func TestGetDeliveries(t *testing.T) {
	f := newCrosspostFixture(t)

	f.ledger.On("FindByContentID", uint64(7)).Return([]domain.DeliveryRecord{
		{ContentID: 7, Platform: domain.PlatformTwitter, Status: domain.DeliverySuccess, RetryCount: 1},
		{ContentID: 7, Platform: domain.PlatformDiscord, Status: domain.DeliveryFailed, RetryCount: 3},
	}, nil)

	out, err := f.svc.GetDeliveries(7)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, domain.DeliverySuccess, out[0].Status)
	assert.Equal(t, uint(3), out[1].RetryCount)
}
