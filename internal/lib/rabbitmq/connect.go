// Package rabbitmq содержит подключение к RabbitMQ, объявление обменника
// и очередей сверки и публикацию JSON-сообщений.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// ReconciliationExchange — durable direct обменник, в который сверка
// публикует исправления счётчиков.
const ReconciliationExchange = "reconciliation"

// ReportRoutingKey — ключ маршрутизации отчётов сверки.
const ReportRoutingKey = "report"

// Connect устанавливает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}
