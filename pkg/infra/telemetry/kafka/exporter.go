package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const (
	ExporterName = "kafka"

	eventEmailCaptured = "email_captured"
	eventVisit         = "visit"

	flushTimeoutMs = 5000
)

var ErrProducerNotInitialized = errors.New("kafka producer is not initialized")

type Config struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	CaptureTopic string `mapstructure:"capture_topic"`
	VisitTopic   string `mapstructure:"visit_topic"`
}

func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("kafka host is required")
	}
	if c.Port == "" {
		return errors.New("kafka port is required")
	}
	if c.CaptureTopic == "" && c.VisitTopic == "" {
		return errors.New("at least one kafka topic is required")
	}
	return nil
}

// DecodeConfig reads exporter settings from a loosely typed map.
func DecodeConfig(settings map[string]interface{}) (Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &conf,
	})
	if err != nil {
		return conf, err
	}
	if err := decoder.Decode(settings); err != nil {
		return conf, fmt.Errorf("invalid kafka config: %w", err)
	}
	return conf, conf.Validate()
}

type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

type envelope struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Exporter publishes captured emails and visit records to Kafka topics.
type Exporter struct {
	cfg      Config
	producer producer
}

func NewExporter(cfg Config) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Exporter{cfg: cfg, producer: p}, nil
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) Capture(ctx context.Context, email visitor.CapturedEmail) error {
	if e.cfg.CaptureTopic == "" {
		return nil
	}
	return e.publish(ctx, e.cfg.CaptureTopic, []byte(email.IP), envelope{
		Type:      eventEmailCaptured,
		Timestamp: email.CapturedAt,
		Data:      email,
	})
}

func (e *Exporter) RecordVisit(ctx context.Context, visit visitor.Visit) error {
	if e.cfg.VisitTopic == "" {
		return nil
	}
	return e.publish(ctx, e.cfg.VisitTopic, []byte(visit.IP), envelope{
		Type:      eventVisit,
		Timestamp: visit.CreatedAt,
		Data:      visit,
	})
}

func (e *Exporter) publish(ctx context.Context, topic string, key []byte, evt envelope) error {
	if e.producer == nil {
		return ErrProducerNotInitialized
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = e.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            key,
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Exporter) Close() {
	if e.producer != nil {
		e.producer.Flush(flushTimeoutMs)
		e.producer.Close()
	}
}
