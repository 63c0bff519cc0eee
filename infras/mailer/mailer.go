package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/kafka"
	"tably/shared/timezone"
	"time"
)

// Mailer hands a rendered message to the delivery pipeline. Delivery is
// asynchronous: publishing to the notification topic is as far as this
// service's responsibility goes.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

type MailMessage struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

type kafkaMailer struct {
	client kafka.Client
	cfg    *config.Config
}

func New(client kafka.Client, cfg *config.Config) Mailer {
	return &kafkaMailer{
		client: client,
		cfg:    cfg,
	}
}

func (m *kafkaMailer) Send(ctx context.Context, recipient, subject, body string) error {
	message := kafka.Message{
		Key: recipient,
		Value: MailMessage{
			Recipient: recipient,
			Subject:   subject,
			Body:      body,
			QueuedAt:  timezone.Now(),
		},
	}

	if err := m.client.SendMessages(ctx, m.cfg.Kafka.NotificationTopic, message); err != nil {
		return fmt.Errorf("failed to queue mail for %s: %w", recipient, err)
	}

	return nil
}
