package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"Presensia/storage/mq"
)

// DeclareTopology 声明交换机、队列和绑定关系
// worker 和 scheduler 启动时都会调用，声明是幂等的
func DeclareTopology() error {
	conn := mq.Connection()
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		ExchangeDelayed,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "topic"},
	)
	if err != nil {
		return fmt.Errorf("failed to declare delayed exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		QueueCheckoutReminder,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare reminder queue: %w", err)
	}

	err = ch.QueueBind(
		QueueCheckoutReminder,
		RoutingKeyCheckoutReminder,
		ExchangeDelayed,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind reminder queue: %w", err)
	}

	return nil
}
