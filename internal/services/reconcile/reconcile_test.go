package reconcile

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

	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/clock"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListUserUIDsForDay(ctx context.Context, day time.Time) ([]string, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *RepoMock) RepairUserCounter(ctx context.Context, userUID string, day time.Time) (*models.RepairEntry, error) {
	args := m.Called(ctx, userUID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RepairEntry), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(message any) error {
	return m.Called(message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Reconcile(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := day.Add(3 * time.Hour)

	t.Run("исправляет расхождение и публикует отчёт", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)

		drift := &models.RepairEntry{UserUID: "user-2", OldCount: 7, NewCount: 5}

		repo.On("ListUserUIDsForDay", mock.Anything, day).Return([]string{"user-1", "user-2"}, nil)
		repo.On("RepairUserCounter", mock.Anything, "user-1", day).Return(nil, nil)
		repo.On("RepairUserCounter", mock.Anything, "user-2", day).Return(drift, nil)
		pub.On("Publish", drift).Return(nil)

		svc := NewService(repo, pub, &clock.Fake{Current: now}, newNoopLogger())

		report, err := svc.Reconcile(context.Background(), day)
		require.NoError(t, err)

		assert.Equal(t, 2, report.CheckedUsers)
		require.Len(t, report.Corrections, 1)
		assert.Equal(t, drift, report.Corrections[0])
		assert.Equal(t, now, report.FinishedAt)

		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("повторный прогон без новых событий ничего не исправляет", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListUserUIDsForDay", mock.Anything, day).Return([]string{"user-1", "user-2"}, nil)
		repo.On("RepairUserCounter", mock.Anything, mock.Anything, day).Return(nil, nil)

		svc := NewService(repo, nil, &clock.Fake{Current: now}, newNoopLogger())

		report, err := svc.Reconcile(context.Background(), day)
		require.NoError(t, err)
		assert.Empty(t, report.Corrections)
		assert.Equal(t, 2, report.CheckedUsers)
	})

	t.Run("ошибка одного пользователя не останавливает прогон", func(t *testing.T) {
		repo := new(RepoMock)
		drift := &models.RepairEntry{UserUID: "user-3", OldCount: 1, NewCount: 2}

		repo.On("ListUserUIDsForDay", mock.Anything, day).Return([]string{"user-1", "user-3"}, nil)
		repo.On("RepairUserCounter", mock.Anything, "user-1", day).Return(nil, errors.New("row lock timeout"))
		repo.On("RepairUserCounter", mock.Anything, "user-3", day).Return(drift, nil)

		svc := NewService(repo, nil, &clock.Fake{Current: now}, newNoopLogger())

		report, err := svc.Reconcile(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, 1, report.CheckedUsers)
		require.Len(t, report.Corrections, 1)
	})

	t.Run("ошибка выборки пользователей фатальна", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListUserUIDsForDay", mock.Anything, day).Return(nil, errors.New("db down"))

		svc := NewService(repo, nil, &clock.Fake{Current: now}, newNoopLogger())

		report, err := svc.Reconcile(context.Background(), day)
		require.Error(t, err)
		assert.Nil(t, report)
	})

	t.Run("ошибка публикации не срывает сверку", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		drift := &models.RepairEntry{UserUID: "user-1", OldCount: 3, NewCount: 4}

		repo.On("ListUserUIDsForDay", mock.Anything, day).Return([]string{"user-1"}, nil)
		repo.On("RepairUserCounter", mock.Anything, "user-1", day).Return(drift, nil)
		pub.On("Publish", drift).Return(errors.New("amqp closed"))

		svc := NewService(repo, pub, &clock.Fake{Current: now}, newNoopLogger())

		report, err := svc.Reconcile(context.Background(), day)
		require.NoError(t, err)
		require.Len(t, report.Corrections, 1)
	})
}

func TestService_ReconcileToday_UsesClockDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	repo := new(RepoMock)
	repo.On("ListUserUIDsForDay", mock.Anything, day).Return([]string{}, nil)

	svc := NewService(repo, nil, &clock.Fake{Current: now}, newNoopLogger())

	report, err := svc.ReconcileToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, day, report.Day)
	repo.AssertExpectations(t)
}
