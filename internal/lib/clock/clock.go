// Package clock предоставляет абстракцию текущего времени и вычисление
// календарного дня. Граница дня фиксирована на полночь UTC, чтобы путь
// списания и путь чтения списка сравнивали один и тот же день.
package clock

import "time"

// Clock отдаёт текущее время. В бизнес-логику всегда передаётся
// интерфейс, чтобы тесты могли управлять переходом через границу дня.
type Clock interface {
	Now() time.Time
}

// System — часы на основе time.Now.
type System struct{}

// Now возвращает текущее системное время.
func (System) Now() time.Time { return time.Now() }

// Fake — управляемые часы для тестов.
type Fake struct {
	Current time.Time
}

// Now возвращает зафиксированное время.
func (f *Fake) Now() time.Time { return f.Current }

// Advance сдвигает зафиксированное время вперёд.
func (f *Fake) Advance(d time.Duration) { f.Current = f.Current.Add(d) }

// Day усекает момент времени до календарного дня в UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay возвращает начало следующего календарного дня в UTC.
// Используется как верхняя граница окна при сверке журнала просмотров.
func NextDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}
