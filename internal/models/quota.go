package models

import "time"

// DecisionKind определяет исход запроса на просмотр контакта.
type DecisionKind string

const (
	// DecisionFree — просмотр бесплатен: контакт уже просмотрен сегодня
	// либо аккаунт премиум.
	DecisionFree DecisionKind = "free"
	// DecisionCharged — списана одна единица дневной квоты.
	DecisionCharged DecisionKind = "charged"
	// DecisionRejected — дневная квота исчерпана, просмотр отклонён.
	DecisionRejected DecisionKind = "rejected"
)

// Decision — результат работы квотного движка для одного запроса просмотра.
type Decision struct {
	Kind          DecisionKind `json:"kind"`
	ViewsToday    int          `json:"views_today"`
	Limit         int          `json:"limit"`
	AlreadyViewed bool         `json:"already_viewed"`
	IsPremium     bool         `json:"is_premium"`
}

// ChargeStatus — низкоуровневый исход транзакции списания в хранилище.
type ChargeStatus string

const (
	ChargeStatusCharged       ChargeStatus = "charged"
	ChargeStatusAlreadyViewed ChargeStatus = "already_viewed"
	ChargeStatusLimitReached  ChargeStatus = "limit_reached"
	ChargeStatusPremium       ChargeStatus = "premium"
)

// ChargeResult возвращается транзакцией списания: исход и счётчик
// просмотров после фиксации транзакции.
type ChargeResult struct {
	Status     ChargeStatus
	ViewsToday int
}

// QuotaState — состояние дневной квоты пользователя после ленивого сброса.
// Инвариант: ViewsToday == len(ViewedContacts).
type QuotaState struct {
	UserUID        string    `json:"-"`
	ViewsToday     int       `json:"views_today"`
	LastViewReset  time.Time `json:"last_view_reset"`
	IsPremium      bool      `json:"is_premium"`
	ViewedContacts []string  `json:"viewed_contacts"`
}
