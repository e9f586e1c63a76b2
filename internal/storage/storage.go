// Package storage реализует хранилище данных на основе PostgreSQL
// для справочника агентств и контактов и учёта дневной квоты просмотров.
// Счётчик просмотров на пользователе — денормализованный кеш; источником
// истины служит журнал view_events, по которому работает сверка.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища, различаемые обработчиками.
var (
	// ErrUserNotFound — пользователь с таким идентификатором не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrContactNotFound — контакт с таким идентификатором не существует.
	ErrContactNotFound = errors.New("contact not found")
)

// isInvalidUUID распознаёт ошибку приведения текста к типу uuid (22P02).
// Идентификатор из пути запроса попадает в запрос как есть, и синтаксически
// некорректное значение означает то же, что и отсутствующая запись.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'view_events'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table view_events missing or query error: %w", err)
	}
	return nil
}
