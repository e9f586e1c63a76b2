package models

import "time"

// Agency представляет агентство из справочника.
type Agency struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// Contact представляет контакт из справочника. Поля AgencyName и AgencyState
// заполняются из связанного агентства при чтении списка.
type Contact struct {
	ID          string    `json:"id"`
	AgencyID    string    `json:"agency_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Position    string    `json:"position"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	AgencyName  string    `json:"agency_name"`
	AgencyState string    `json:"agency_state"`
	CreatedAt   time.Time `json:"-"`
}

// ContactListing объединяет страницу контактов с состоянием квоты
// пользователя, чтобы клиент мог отрисовать "уже просмотрено"
// без дополнительного запроса.
type ContactListing struct {
	Contacts       []*Contact `json:"contacts"`
	ViewsToday     int        `json:"views_today"`
	Limit          int        `json:"limit"`
	IsPremium      bool       `json:"is_premium"`
	ViewedContacts []string   `json:"viewed_contacts"`
}
