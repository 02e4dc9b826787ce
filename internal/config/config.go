package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendSQS      = "sqs"
	BackendKafka    = "kafka"
)

// Config is read from the lambda environment.
type Config struct {
	QueueURL  string `envconfig:"CRAWLER_QUEUE_URL"`
	TableName string `envconfig:"VISITED_TABLE_NAME"`
	Region    string `envconfig:"AWS_REGION" default:"us-east-1"`

	StoreBackend string        `envconfig:"STORE_BACKEND" default:"dynamodb"`
	QueueBackend string        `envconfig:"QUEUE_BACKEND" default:"sqs"`
	RedisAddr    string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	VisitedTTL   time.Duration `envconfig:"VISITED_TTL" default:"168h"`
	KafkaBroker  string        `envconfig:"KAFKA_BROKER" default:"localhost:9092"`
	KafkaTopic   string        `envconfig:"KAFKA_TOPIC" default:"crawler.frontier"`

	RobotsCheck bool   `envconfig:"ROBOTS_CHECK" default:"false"`
	UserAgent   string `envconfig:"USER_AGENT" default:"crawl-initiator/1.0"`
	Sender      string `envconfig:"SENDER" default:"crawl-initiator"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	SQSLongpollTimeoutInSec int64 `envconfig:"SQS_LONGPOLL_TIMEOUT_IN_SEC" default:"10"`
}

// Load processes the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadQueue is Load for tools that only talk to the queue; store settings
// are not checked.
func LoadQueue() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.ValidateQueue(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings each selected backend needs.
func (c Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	return c.ValidateQueue()
}

func (c Config) ValidateStore() error {
	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.TableName == "" {
			return errors.New("VISITED_TABLE_NAME is required for the dynamodb store")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis store")
		}
		if c.VisitedTTL <= 0 {
			return fmt.Errorf("VISITED_TTL must be positive, got %s", c.VisitedTTL)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func (c Config) ValidateQueue() error {
	switch c.QueueBackend {
	case BackendSQS:
		if c.QueueURL == "" {
			return errors.New("CRAWLER_QUEUE_URL is required for the sqs queue")
		}
	case BackendKafka:
		if c.KafkaBroker == "" || c.KafkaTopic == "" {
			return errors.New("KAFKA_BROKER and KAFKA_TOPIC are required for the kafka queue")
		}
	default:
		return fmt.Errorf("unknown QUEUE_BACKEND %q", c.QueueBackend)
	}

	return nil
}
