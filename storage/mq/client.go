package mq

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"OnSite/config"
	"OnSite/internal/model"
)

var (
	conn   *amqp.Connection
	connMu sync.RWMutex
)

func Init() error {
	url := config.Cfg.GetRabbitMQURL()

	c, err := amqp.Dial(url)
	if err != nil {
		return err
	}

	connMu.Lock()
	conn = c
	connMu.Unlock()

	return declareTopology()
}

func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

func Close() error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}

	err := conn.Close()
	conn = nil
	return err
}

// declareTopology 声明考勤事件和通知用到的交换机、队列与绑定
func declareTopology() error {
	ch, err := Connection().Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	exchanges := []string{model.ExchangeEvents, model.ExchangeNotification}
	for _, exchange := range exchanges {
		if err := ch.ExchangeDeclare(
			exchange,
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return err
		}
	}

	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{model.QueueAttendanceEvents, model.ExchangeEvents, "attendance.*"},
		{model.QueueAttendanceMissed, model.ExchangeNotification, "notification.attendance.*"},
	}
	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}
