package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/in"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
)

// CacheHitListener слушает события мутаций из внешнего хранилища
// (вебхуки бэкенда) и инвалидирует кэш затронутого дня. Это тот же
// контракт тегов Doctor/Appointment/Patient, что и у слоя запросов,
// только для изменений в обход этого сервиса
type CacheHitListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.CalendarUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type (
	CacheHitType         string
	CacheHitResourceType string
)

const (
	CacheHitResourceTypeAppointment CacheHitResourceType = "appointment"
	CacheHitResourceTypePatient     CacheHitResourceType = "patient"
	CacheHitResourceTypeDoctor      CacheHitResourceType = "doctor"
)

const (
	CacheHitTypeStore      CacheHitType = "store"
	CacheHitTypeInvalidate CacheHitType = "invalidate"
)

type CacheMessageRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType CacheHitResourceType
	CacheHitType CacheHitType
}

// CacheHitMessage - тело события мутации
type CacheHitMessage struct {
	MessageID       uuid.UUID `json:"message_id"`
	AppointmentDate string    `json:"appointment_date"`
	ResourceID      int64     `json:"resource_id"`
}

func NewCacheHitListener(useCase in.CalendarUseCase, cfg *config.Config, logger out.LoggerPort) (*CacheHitListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &CacheHitListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *CacheHitListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processMessage(ctx, msg); err != nil {
					l.logger.Error("rabbitmq.message.failed", out.LogFields{
						"routingKey": msg.RoutingKey,
						"error":      err.Error(),
					})
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("rabbitmq.queue.started", out.LogFields{
		"queue": queue.Name,
	})

	return nil
}

func (l *CacheHitListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

func (l *CacheHitListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseCacheMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	var message CacheHitMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		return err
	}

	l.logger.Info("rabbitmq.message.received", out.LogFields{
		"messageId":    message.MessageID,
		"resourceType": routingKey.ResourceType,
		"cacheHitType": routingKey.CacheHitType,
	})

	switch routingKey.ResourceType {
	case CacheHitResourceTypeAppointment, CacheHitResourceTypeDoctor:
		if routingKey.CacheHitType == CacheHitTypeInvalidate && message.AppointmentDate != "" {
			l.useCase.InvalidateDayCache(ctx, message.AppointmentDate)

			l.logger.Info("rabbitmq.day.invalidated", out.LogFields{
				"messageId": message.MessageID,
				"date":      message.AppointmentDate,
			})
		}
	case CacheHitResourceTypePatient:
		// Справочник пациентов не кэшируется, событие только логируем
		l.logger.Debug("rabbitmq.patient.skipped", out.LogFields{
			"messageId":  message.MessageID,
			"resourceId": message.ResourceID,
		})
	}

	return nil
}

// Пример routingKey:
// supabase.medical-calendar.appointment.invalidate
// supabase.medical-calendar.patient.invalidate
func (l *CacheHitListener) parseCacheMessageRoutingKey(msg amqp.Delivery) (CacheMessageRoutingKey, error) {
	parts := strings.Split(msg.RoutingKey, ".")

	if len(parts) < 4 {
		return CacheMessageRoutingKey{}, fmt.Errorf("invalid routing key: %s", msg.RoutingKey)
	}

	return CacheMessageRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: CacheHitResourceType(parts[2]),
		CacheHitType: CacheHitType(parts[3]),
	}, nil
}
