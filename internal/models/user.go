// Package models содержит доменные структуры справочника контактов:
// пользователей, агентства, контакты и состояние дневной квоты просмотров.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Email         string    // Электронная почта
	Username      string    // Имя пользователя (уникальное)
	PasswordHash  string    // Хэш пароля пользователя
	Role          string    // Роль пользователя, admin или user
	IsPremium     bool      // Премиум-аккаунт: просмотры не тарифицируются
	DailyViews    int       // Счётчик просмотров за текущий день (денормализованный кеш)
	LastViewReset time.Time // День последнего сброса счётчика
	CreatedAt     time.Time
}
