package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// ChargeView выполняет одну попытку просмотра контакта в единственной
// транзакции. Строка пользователя блокируется через SELECT ... FOR UPDATE —
// это точка сериализации для конкурентных запросов одного пользователя:
// гонка "прочитал-сравнил-записал" исключена. Ленивый сброс дня, проверка
// премиума, идемпотентность по множеству просмотренных, проверка лимита и
// тройная мутация (множество, счётчик, журнал) фиксируются вместе или
// не фиксируются вовсе.
func (s *Storage) ChargeView(ctx context.Context, userUID, contactID string, day, now time.Time, limit int) (*models.ChargeResult, error) {
	const op = "storage.ChargeView"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var contactExists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1)`, contactID).Scan(&contactExists); err != nil {
		if isInvalidUUID(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrContactNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !contactExists {
		return nil, fmt.Errorf("%s: %w", op, ErrContactNotFound)
	}

	var (
		views     int
		lastReset time.Time
		isPremium bool
	)
	row := tx.QueryRowContext(ctx,
		`SELECT daily_views, last_view_reset, is_premium FROM users WHERE uid = $1 FOR UPDATE`, userUID)
	if err := row.Scan(&views, &lastReset, &isPremium); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !sameDay(lastReset, day) {
		if err := resetQuotaTx(ctx, tx, userUID, day); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		views = 0
	}

	if isPremium {
		// Премиум не тарифицируется: ни счётчик, ни журнал не трогаем,
		// но ленивый сброс, если он случился, фиксируем.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &models.ChargeResult{Status: models.ChargeStatusPremium, ViewsToday: views}, nil
	}

	var alreadyViewed bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM viewed_contacts WHERE user_uid = $1 AND contact_id = $2)`,
		userUID, contactID).Scan(&alreadyViewed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if alreadyViewed {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &models.ChargeResult{Status: models.ChargeStatusAlreadyViewed, ViewsToday: views}, nil
	}

	if views >= limit {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &models.ChargeResult{Status: models.ChargeStatusLimitReached, ViewsToday: views}, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO viewed_contacts (user_uid, contact_id) VALUES ($1, $2)`,
		userUID, contactID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var newViews int
	if err := tx.QueryRowContext(ctx,
		`UPDATE users SET daily_views = daily_views + 1 WHERE uid = $1 RETURNING daily_views`,
		userUID).Scan(&newViews); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO view_events (user_uid, contact_id, occurred_at) VALUES ($1, $2, $3)`,
		userUID, contactID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.ChargeResult{Status: models.ChargeStatusCharged, ViewsToday: newViews}, nil
}

// GetQuotaState возвращает состояние дневной квоты пользователя, применяя
// ленивый сброс дня тем же транзакционным способом, что и путь списания.
// Запись никогда не остаётся устаревшей дольше одного обращения.
func (s *Storage) GetQuotaState(ctx context.Context, userUID string, day time.Time) (*models.QuotaState, error) {
	const op = "storage.GetQuotaState"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	st := &models.QuotaState{UserUID: userUID}
	row := tx.QueryRowContext(ctx,
		`SELECT daily_views, last_view_reset, is_premium FROM users WHERE uid = $1 FOR UPDATE`, userUID)
	if err := row.Scan(&st.ViewsToday, &st.LastViewReset, &st.IsPremium); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !sameDay(st.LastViewReset, day) {
		if err := resetQuotaTx(ctx, tx, userUID, day); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		st.ViewsToday = 0
		st.LastViewReset = day
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT contact_id FROM viewed_contacts WHERE user_uid = $1`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	st.ViewedContacts = []string{}
	for rows.Next() {
		var contactID string
		if err := rows.Scan(&contactID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		st.ViewedContacts = append(st.ViewedContacts, contactID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// resetQuotaTx обнуляет счётчик и очищает множество просмотренных контактов
// в рамках открытой транзакции. Журнал view_events не трогается никогда.
func resetQuotaTx(ctx context.Context, tx *sql.Tx, userUID string, day time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET daily_views = 0, last_view_reset = $2 WHERE uid = $1`,
		userUID, day); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM viewed_contacts WHERE user_uid = $1`, userUID); err != nil {
		return err
	}
	return nil
}

// sameDay сравнивает календарные дни, игнорируя зону, в которой драйвер
// вернул значение колонки DATE.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
