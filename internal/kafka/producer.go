package kafka

import (
	"bank-ledger/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

type Producer interface {
	SendSplitPaymentEvent(ctx context.Context, event models.SplitPaymentEvent) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// Split payment messages are keyed by proposal so that every event of one
// proposal lands on the same partition.
const (
	schemaVersion = "split-payment.v1"

	headerEventID    = "event_id"
	headerState      = "state"
	headerSplitType  = "split_type"
	headerSchema     = "schema"
	headerCauseIBAN  = "cause_iban"
	headerProposalID = "proposal_id"
)

var ErrMissingEventID = errors.New("split payment event without event_id")

func NewKafkaProducer(brokers []string, topic string, log *slog.Logger) (Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Producer.Retry.Max = 5
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать kafka producer: %w", err)
	}

	log.Info("kafka producer создан", slog.String("topic", topic), slog.Any("brokers", brokers))

	return NewProducerFromSync(producer, topic, log), nil
}

// NewProducerFromSync wraps an existing sarama producer.
func NewProducerFromSync(producer sarama.SyncProducer, topic string, log *slog.Logger) *KafkaProducer {
	return &KafkaProducer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// ProposalKey is the partition key of every event of one proposal.
func ProposalKey(id uint64) string {
	return "proposal-" + strconv.FormatUint(id, 10)
}

// splitMessage frames a terminal proposal transition for the topic. Headers
// repeat the routing fields so consumers can filter without decoding.
func splitMessage(topic string, event models.SplitPaymentEvent) (*sarama.ProducerMessage, error) {
	if event.EventID == "" {
		return nil, ErrMissingEventID
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal split payment event: %w", err)
	}

	headers := []sarama.RecordHeader{
		{Key: []byte(headerSchema), Value: []byte(schemaVersion)},
		{Key: []byte(headerEventID), Value: []byte(event.EventID)},
		{Key: []byte(headerProposalID), Value: []byte(strconv.FormatUint(event.ProposalID, 10))},
		{Key: []byte(headerState), Value: []byte(event.State)},
		{Key: []byte(headerSplitType), Value: []byte(event.SplitType)},
	}
	if event.CauseIBAN != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte(headerCauseIBAN), Value: []byte(event.CauseIBAN)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(ProposalKey(event.ProposalID)),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	}
	if !event.EmittedAt.IsZero() {
		msg.Timestamp = event.EmittedAt
	}
	return msg, nil
}

func (p *KafkaProducer) SendSplitPaymentEvent(ctx context.Context, event models.SplitPaymentEvent) error {
	msg, err := splitMessage(p.topic, event)
	if err != nil {
		return err
	}

	type result struct {
		partition int32
		offset    int64
		err       error
	}
	resultCh := make(chan result, 1)

	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		resultCh <- result{partition, offset, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			p.log.Error("не удалось отправить событие split payment",
				slog.String("event_id", event.EventID),
				slog.Uint64("proposal_id", event.ProposalID),
				slog.String("error", res.err.Error()))
			return res.err
		}
		p.log.Debug("событие split payment записано",
			slog.String("event_id", event.EventID),
			slog.Uint64("proposal_id", event.ProposalID),
			slog.Int("partition", int(res.partition)),
			slog.Int64("offset", res.offset))
		return nil

	case <-ctx.Done():
		p.log.Warn("отправка события split payment отменена",
			slog.String("event_id", event.EventID),
			slog.Uint64("proposal_id", event.ProposalID))
		return ctx.Err()
	}
}

func (p *KafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	p.log.Info("закрытие kafka producer")
	return p.producer.Close()
}

type NoOpProducer struct {
	log *slog.Logger
}

func NewNoOpProducer(log *slog.Logger) Producer {
	return &NoOpProducer{log: log}
}

func (p *NoOpProducer) SendSplitPaymentEvent(ctx context.Context, event models.SplitPaymentEvent) error {
	p.log.Debug("kafka отключен, событие не отправлено",
		slog.String("event_id", event.EventID),
		slog.Uint64("proposal_id", event.ProposalID))
	return nil
}

func (p *NoOpProducer) Close() error {
	return nil
}
