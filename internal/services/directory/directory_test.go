package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListAgencies(ctx context.Context, limit int) ([]*models.Agency, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Agency), args.Error(1)
}

func (m *RepoMock) ListContacts(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contact), args.Error(1)
}

func (m *RepoMock) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

type QuotaMock struct{ mock.Mock }

func (m *QuotaMock) Status(ctx context.Context, userUID string) (*models.QuotaState, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuotaState), args.Error(1)
}

func (m *QuotaMock) Limit() int {
	return m.Called().Int(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_ListAgencies_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	agencies := []*models.Agency{{ID: "a-1", Name: "Agence Horizon", State: "75"}}

	cache.On("Get", "agencies:list", mock.Anything).Return(false, nil)
	repo.On("ListAgencies", mock.Anything, 1000).Return(agencies, nil)
	cache.On("Set", "agencies:list", agencies, 10*time.Minute).Return(nil)

	svc := NewService(repo, new(QuotaMock), cache, newNoopLogger())

	got, err := svc.ListAgencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, agencies, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_ListAgencies_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cache.On("Get", "agencies:list", mock.Anything).Return(true, nil)

	svc := NewService(repo, new(QuotaMock), cache, newNoopLogger())

	_, err := svc.ListAgencies(context.Background())
	require.NoError(t, err)

	repo.AssertNotCalled(t, "ListAgencies")
	cache.AssertExpectations(t)
}

func TestService_ListContacts(t *testing.T) {
	repo := new(RepoMock)
	quota := new(QuotaMock)

	contacts := []*models.Contact{
		{ID: "c-1", FirstName: "Marie", LastName: "Dupont", AgencyName: "Agence Horizon"},
		{ID: "c-2", FirstName: "Pierre", LastName: "Martin", AgencyName: "Cabinet Lumière"},
	}
	state := &models.QuotaState{
		UserUID:        "user-1",
		ViewsToday:     1,
		IsPremium:      false,
		ViewedContacts: []string{"c-1"},
	}

	repo.On("ListContacts", mock.Anything, 100, 0).Return(contacts, nil)
	quota.On("Status", mock.Anything, "user-1").Return(state, nil)
	quota.On("Limit").Return(50)

	svc := NewService(repo, quota, new(CacheMock), newNoopLogger())

	listing, err := svc.ListContacts(context.Background(), "user-1", 100, 0)
	require.NoError(t, err)

	assert.Equal(t, contacts, listing.Contacts)
	assert.Equal(t, 1, listing.ViewsToday)
	assert.Equal(t, 50, listing.Limit)
	assert.False(t, listing.IsPremium)
	assert.Equal(t, []string{"c-1"}, listing.ViewedContacts)

	repo.AssertExpectations(t)
	quota.AssertExpectations(t)
}

func TestService_ListContacts_QuotaError(t *testing.T) {
	repo := new(RepoMock)
	quota := new(QuotaMock)

	repo.On("ListContacts", mock.Anything, 100, 0).Return([]*models.Contact{}, nil)
	quota.On("Status", mock.Anything, "user-1").Return(nil, errors.New("db down"))

	svc := NewService(repo, quota, new(CacheMock), newNoopLogger())

	listing, err := svc.ListContacts(context.Background(), "user-1", 100, 0)
	require.Error(t, err)
	assert.Nil(t, listing)
}
