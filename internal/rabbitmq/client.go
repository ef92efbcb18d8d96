package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
)

// Client клиент RabbitMQ для очереди задач трекинга скачиваний
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к брокеру и объявляет очередь
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка открытия канала RabbitMQ: %w", err)
	}

	// Идемпотентно: очередь создаётся только если её нет
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка объявления очереди %s: %w", cfg.RabbitMQ.RabbitMQQueueName, err)
	}

	logger.Info("rabbitmq queue declared", "queue", q.Name, "messages", q.Messages)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   q,
		logger:  logger,
	}, nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия канала RabbitMQ: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия соединения RabbitMQ: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishDownloadJob публикует задачу трекинга скачивания.
func (c *Client) PublishDownloadJob(ctx context.Context, payload payloads.DownloadJobPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации задачи: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("ошибка публикации задачи %s: %w", payload.PhotoID, err)
	}

	c.logger.Debug("download job published", "queue", c.queue.Name, "photo_id", payload.PhotoID)
	return nil
}

// StartConsumingDownloadJobs регистрирует потребителя и обрабатывает сообщения
// в отдельной горутине до отмены ctx.
func (c *Client) StartConsumingDownloadJobs(ctx context.Context, handler func(context.Context, payloads.DownloadJobPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("ошибка регистрации потребителя: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("rabbitmq delivery channel closed, stopping consumer")
					return
				}
				c.handleDelivery(ctx, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping rabbitmq consumer")
				return
			}
		}
	}()

	return nil
}

// deliveryOutcome решение по сообщению после обработки
type deliveryOutcome int

const (
	outcomeAck deliveryOutcome = iota
	outcomeRequeue
	outcomeDrop
)

func (o deliveryOutcome) String() string {
	switch o {
	case outcomeAck:
		return "ack"
	case outcomeRequeue:
		return "requeue"
	default:
		return "drop"
	}
}

// processDelivery декодирует и обрабатывает тело сообщения.
// Битое сообщение отбрасывается, неудачная задача возвращается в очередь
// один раз, повторно доставленная неудачная задача отбрасывается.
func (c *Client) processDelivery(
	ctx context.Context,
	body []byte,
	redelivered bool,
	handler func(context.Context, payloads.DownloadJobPayload) error,
) deliveryOutcome {
	var payload payloads.DownloadJobPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("failed to unmarshal message", "error", err, "body", string(body))
		return outcomeDrop
	}
	payload.Redelivered = redelivered

	if err := handler(ctx, payload); err != nil {
		c.logger.Error("failed to process download job",
			"photo_id", payload.PhotoID,
			"redelivered", redelivered,
			"error", err,
		)
		if redelivered {
			return outcomeDrop
		}
		return outcomeRequeue
	}
	return outcomeAck
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.DownloadJobPayload) error) {
	outcome := c.processDelivery(ctx, msg.Body, msg.Redelivered, handler)

	var err error
	switch outcome {
	case outcomeAck:
		err = msg.Ack(false)
	case outcomeRequeue:
		err = msg.Nack(false, true)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		c.logger.Error("failed to settle message", "outcome", outcome.String(), "error", err)
	}
}
