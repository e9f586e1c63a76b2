package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/lib/clock"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// ListUserUIDsForDay возвращает пользователей, чей счётчик относится к
// переданному дню. Пользователи со старым маркером сброса пропускаются:
// их счётчик описывает прошлый день и будет лениво сброшен первым же
// живым запросом.
func (s *Storage) ListUserUIDsForDay(ctx context.Context, day time.Time) ([]string, error) {
	const op = "storage.ListUserUIDsForDay"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT uid FROM users WHERE last_view_reset = $1 ORDER BY uid`, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		uids = append(uids, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return uids, nil
}

// countDistinctViews считает авторитетное число уникальных контактов,
// просмотренных пользователем за календарный день, по журналу view_events.
// Запрос выполняется внутри переданной транзакции, чтобы пересчёт видел
// журнал под той же блокировкой строки пользователя.
func countDistinctViews(ctx context.Context, tx *sql.Tx, userUID string, dayStart, dayEnd time.Time) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT contact_id) FROM view_events
		 WHERE user_uid = $1 AND occurred_at >= $2 AND occurred_at < $3`,
		userUID, dayStart, dayEnd).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RepairUserCounter пересчитывает дневной счётчик пользователя по журналу
// view_events и перезаписывает кеш, если тот разошёлся. Журнал всегда
// важнее кешированного счётчика. Строка пользователя блокируется, чтобы
// не гоняться с живым списанием; пересчёт идёт только от журнала, никогда
// от значения счётчика в полёте. Возвращает nil, если исправление
// не потребовалось.
func (s *Storage) RepairUserCounter(ctx context.Context, userUID string, day time.Time) (*models.RepairEntry, error) {
	const op = "storage.RepairUserCounter"
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

	var (
		views     int
		lastReset time.Time
	)
	row := tx.QueryRowContext(ctx,
		`SELECT daily_views, last_view_reset FROM users WHERE uid = $1 FOR UPDATE`, userUID)
	if err := row.Scan(&views, &lastReset); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Пользователь успел перейти в новый день между выборкой и блокировкой.
	if !sameDay(lastReset, day) {
		return nil, nil
	}

	authoritative, err := countDistinctViews(ctx, tx, userUID, day, clock.NextDay(day))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if authoritative == views {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET daily_views = $2 WHERE uid = $1`, userUID, authoritative); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.RepairEntry{
		UserUID:  userUID,
		OldCount: views,
		NewCount: authoritative,
	}, nil
}
