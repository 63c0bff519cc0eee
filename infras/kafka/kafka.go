package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"tably/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
}

type kafkaClientImpl struct {
	config    *config.Config
	transport *kafkaGo.Transport
}

func New(config *config.Config) Client {
	mechanism := plain.Mechanism{
		Username: config.Kafka.SASL.Username,
		Password: config.Kafka.SASL.Password,
	}

	transport := &kafkaGo.Transport{
		SASL: mechanism,
	}

	log.Info().Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config:    config,
		transport: transport,
	}
}

func (c *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	writer := &kafkaGo.Writer{
		Addr:      kafkaGo.TCP(c.config.Kafka.Brokers...),
		Topic:     topic,
		Balancer:  &kafkaGo.Hash{},
		Transport: c.transport,
	}
	defer writer.Close()

	kafkaMessages := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		kafkaMessage, err := message.ToKafkaMessage()
		if err != nil {
			return err
		}

		kafkaMessages = append(kafkaMessages, kafkaMessage)
	}

	if err = writer.WriteMessages(ctx, kafkaMessages...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to write messages to Kafka")

		return fmt.Errorf("failed to write messages to kafka: %w", err)
	}

	return nil
}
