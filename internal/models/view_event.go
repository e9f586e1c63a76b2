package models

import "time"

// ViewEvent — запись журнала просмотров. Журнал только дописывается и
// служит источником истины при сверке счётчиков.
type ViewEvent struct {
	ID         int64     `json:"id"`
	UserUID    string    `json:"user_uid"`
	ContactID  string    `json:"contact_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RepairEntry — одна исправленная запись в отчёте сверки.
type RepairEntry struct {
	UserUID  string `json:"user_uid"`
	OldCount int    `json:"old_count"`
	NewCount int    `json:"new_count"`
}

// RepairReport — итог работы сверки за день: сколько пользователей
// проверено и какие счётчики были исправлены по журналу просмотров.
type RepairReport struct {
	Day          time.Time      `json:"day"`
	CheckedUsers int            `json:"checked_users"`
	Corrections  []*RepairEntry `json:"corrections"`
	FinishedAt   time.Time      `json:"finished_at"`
}
