package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// ReportPublisher публикует отчёты сверки в обменник reconciliation.
type ReportPublisher struct {
	ch *amqp.Channel
}

// NewReportPublisher создает издателя отчётов на открытом канале.
func NewReportPublisher(ch *amqp.Channel) *ReportPublisher {
	return &ReportPublisher{ch: ch}
}

// Publish отправляет сообщение с ключом маршрутизации отчётов.
func (p *ReportPublisher) Publish(message any) error {
	return PublishMessage(p.ch, ReconciliationExchange, ReportRoutingKey, message)
}

// PublishMessage сериализует сообщение в JSON и публикует его
// в указанный обменник с заданным ключом маршрутизации.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
