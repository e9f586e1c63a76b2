// Package directory содержит бизнес-логику чтения справочника агентств
// и контактов. Список контактов отдаётся вместе с состоянием квоты
// пользователя, чтобы клиент отрисовал "уже просмотрено" без второго
// запроса. Список агентств кешируется в redis.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

const (
	agenciesCacheKey = "agencies:list"
	agenciesCacheTTL = 10 * time.Minute
	agenciesLimit    = 1000
)

// Repository определяет методы чтения справочника в хранилище.
type Repository interface {
	ListAgencies(ctx context.Context, limit int) ([]*models.Agency, error)
	ListContacts(ctx context.Context, limit, offset int) ([]*models.Contact, error)
	GetContact(ctx context.Context, id string) (*models.Contact, error)
}

// QuotaStatus отдаёт состояние квоты пользователя (с ленивым сбросом дня).
type QuotaStatus interface {
	Status(ctx context.Context, userUID string) (*models.QuotaState, error)
	Limit() int
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует чтение справочника с кешированием.
type Service struct {
	repo  Repository
	quota QuotaStatus
	cache Cache
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, quota QuotaStatus, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		quota: quota,
		cache: cache,
		log:   log,
	}
}

// ListAgencies возвращает агентства из кеша или хранилища.
func (s *Service) ListAgencies(ctx context.Context) ([]*models.Agency, error) {
	var agencies []*models.Agency
	found, err := s.cache.Get(agenciesCacheKey, &agencies)
	if err != nil {
		s.log.Warn("failed to read agencies cache", slog.Any("err", err))
	}
	if found {
		return agencies, nil
	}

	agencies, err = s.repo.ListAgencies(ctx, agenciesLimit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(agenciesCacheKey, agencies, agenciesCacheTTL); err != nil {
		s.log.Warn("failed to cache agencies", slog.String("key", agenciesCacheKey), slog.Any("err", err))
	}
	return agencies, nil
}

// ListContacts возвращает страницу контактов вместе с состоянием квоты
// пользователя. Состояние квоты читается транзакционно и не кешируется.
func (s *Service) ListContacts(ctx context.Context, userUID string, limit, offset int) (*models.ContactListing, error) {
	contacts, err := s.repo.ListContacts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	state, err := s.quota.Status(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to read quota state: %w", err)
	}

	return &models.ContactListing{
		Contacts:       contacts,
		ViewsToday:     state.ViewsToday,
		Limit:          s.quota.Limit(),
		IsPremium:      state.IsPremium,
		ViewedContacts: state.ViewedContacts,
	}, nil
}

// GetContact возвращает контакт по идентификатору.
func (s *Service) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	return s.repo.GetContact(ctx, id)
}
