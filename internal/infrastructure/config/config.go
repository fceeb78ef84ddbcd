package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	NotifierLog      = "log"
	NotifierSQS      = "sqs"
	NotifierRabbitMQ = "rabbitmq"

	SignatureStoreInline = "inline"
	SignatureStoreS3     = "s3"
)

// Config is read once from the environment at startup.
type Config struct {
	Port           string
	StoreDriver    string
	TransitionMode string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	ProposalsTable     string
	AuditEventsTable   string
	CountersTable      string

	PostgresDSN string

	TokenTTL          time.Duration
	TokenCleanupGrace time.Duration
	PublicBaseURL     string

	Notifier      string
	NotifyTimeout time.Duration
	SQSQueueURL   string
	SQSEndpoint   string
	RabbitMQURL   string
	RabbitMQQueue string

	SignatureStore string
	S3Bucket       string
	S3Endpoint     string

	MaskingPolicyFile string

	ReconcileOlderThan time.Duration
	ReconcileInterval  time.Duration
}

// FromEnv loads and validates the configuration.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getenvDefault("PORT", "8080"),
		StoreDriver:    strings.ToLower(getenvDefault("STORE_DRIVER", StoreDynamoDB)),
		TransitionMode: strings.ToLower(getenvDefault("TRANSITION_MODE", "atomic")),

		AWSRegion:          getenvDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		AWSSecretAccessKey: getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		DynamoDBEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),
		ProposalsTable:     getenvDefault("PROPOSALS_TABLE", "proposals"),
		AuditEventsTable:   getenvDefault("AUDIT_EVENTS_TABLE", "audit_events"),
		CountersTable:      getenvDefault("COUNTERS_TABLE", "counters"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		PublicBaseURL: strings.TrimRight(getenvDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		Notifier:      strings.ToLower(getenvDefault("NOTIFIER", NotifierLog)),
		SQSQueueURL:   os.Getenv("SQS_QUEUE_URL"),
		SQSEndpoint:   os.Getenv("SQS_ENDPOINT"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		RabbitMQQueue: getenvDefault("RABBITMQ_QUEUE", "proposal-notifications"),

		SignatureStore: strings.ToLower(getenvDefault("SIGNATURE_STORE", SignatureStoreInline)),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),

		MaskingPolicyFile: os.Getenv("MASKING_POLICY_FILE"),
	}

	var errs []error
	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"TOKEN_TTL", 30 * 24 * time.Hour, &cfg.TokenTTL},
		{"TOKEN_CLEANUP_GRACE", 7 * 24 * time.Hour, &cfg.TokenCleanupGrace},
		{"NOTIFY_TIMEOUT", 10 * time.Second, &cfg.NotifyTimeout},
		{"RECONCILE_OLDER_THAN", 5 * time.Minute, &cfg.ReconcileOlderThan},
		{"RECONCILE_INTERVAL", 0, &cfg.ReconcileInterval},
	}
	for _, d := range durations {
		v, err := getenvDuration(d.key, d.def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*d.dest = v
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c Config) validate() []error {
	var errs []error
	switch c.StoreDriver {
	case StoreDynamoDB, StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of dynamodb, postgres, memory", c.StoreDriver))
	}
	switch c.TransitionMode {
	case "atomic", "compensating":
	default:
		errs = append(errs, fmt.Errorf("TRANSITION_MODE %q is not one of atomic, compensating", c.TransitionMode))
	}
	switch c.Notifier {
	case NotifierLog:
	case NotifierSQS:
		if c.SQSQueueURL == "" {
			errs = append(errs, errors.New("SQS_QUEUE_URL is required when NOTIFIER=sqs"))
		}
	case NotifierRabbitMQ:
		if c.RabbitMQURL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL is required when NOTIFIER=rabbitmq"))
		}
	default:
		errs = append(errs, fmt.Errorf("NOTIFIER %q is not one of log, sqs, rabbitmq", c.Notifier))
	}
	switch c.SignatureStore {
	case SignatureStoreInline:
	case SignatureStoreS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when SIGNATURE_STORE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("SIGNATURE_STORE %q is not one of inline, s3", c.SignatureStore))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errs
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
