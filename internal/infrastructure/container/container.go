// Package container builds the service graph from configuration and owns
// the teardown of everything it opened.
package container

import (
	"context"
	"errors"
	"fmt"
	"log"

	"propostas_service/internal/adapter/persistence/repository"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/infrastructure/config"
	"propostas_service/internal/infrastructure/database"
	"propostas_service/internal/infrastructure/messaging"
	"propostas_service/internal/infrastructure/metrics"
	"propostas_service/internal/infrastructure/render"
	"propostas_service/internal/infrastructure/storage"
	"propostas_service/internal/usecase"
	"propostas_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type Container struct {
	Config  config.Config
	Policy  *masking.Policy
	Metrics *metrics.PrometheusMetrics

	Proposals  *usecase.ProposalUseCase
	Lifecycle  *usecase.LifecycleUseCase
	Public     *usecase.PublicProposalUseCase
	Audit      *usecase.AuditUseCase
	Reconciler *usecase.ReconcilerUseCase

	awsCfg  *aws.Config
	closers []func() error
}

// Build wires every component selected by cfg. On error, whatever was
// already opened is closed.
func Build(ctx context.Context, cfg config.Config) (_ *Container, err error) {
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.closeAll()
		}
	}()

	if c.Policy, err = masking.LoadPolicy(cfg.MaskingPolicyFile); err != nil {
		return nil, err
	}
	c.Metrics = metrics.New()

	proposals, audit, err := c.buildStore(ctx)
	if err != nil {
		return nil, err
	}
	committer, err := usecase.NewTransitionCommitter(proposals, audit, cfg.TransitionMode)
	if err != nil {
		return nil, err
	}
	notifier, err := c.buildNotifier(ctx)
	if err != nil {
		return nil, err
	}
	images, err := c.buildImageStore(ctx)
	if err != nil {
		return nil, err
	}
	renderer := render.NewJSONRenderer(c.Policy)

	issuer := usecase.NewTokenIssuer(proposals, committer, c.Metrics, cfg.TokenTTL)
	c.Lifecycle = usecase.NewLifecycleUseCase(proposals, committer, issuer, notifier, c.Metrics, cfg.NotifyTimeout)
	c.Audit = usecase.NewAuditUseCase(audit)
	c.Proposals = usecase.NewProposalUseCase(proposals, c.Policy, renderer)
	c.Public = usecase.NewPublicProposalUseCase(issuer, c.Lifecycle, c.Audit, images, c.Policy, renderer)
	c.Reconciler = usecase.NewReconcilerUseCase(proposals, audit)

	log.Printf("[container] ready store=%s mode=%s notifier=%s signature_store=%s", cfg.StoreDriver, cfg.TransitionMode, cfg.Notifier, cfg.SignatureStore)
	return c, nil
}

func (c *Container) buildStore(ctx context.Context) (interfaces.IProposalRepository, interfaces.IAuditRepository, error) {
	cfg := c.Config
	switch cfg.StoreDriver {
	case config.StoreMemory:
		s := repository.NewMemoryStore()
		return s, s, nil
	case config.StoreDynamoDB:
		awsCfg, err := c.aws(ctx)
		if err != nil {
			return nil, nil, err
		}
		ddb := database.NewDynamoDBClient(awsCfg, cfg.DynamoDBEndpoint)
		return repository.NewProposalDynamoRepository(ddb, cfg.ProposalsTable, cfg.CountersTable, cfg.AuditEventsTable),
			repository.NewAuditEventDynamoRepository(ddb, cfg.AuditEventsTable), nil
	case config.StorePostgres:
		db, err := database.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		c.closers = append(c.closers, db.Close)
		if err := database.MigratePostgres(ctx, db); err != nil {
			return nil, nil, err
		}
		return repository.NewProposalPostgresRepository(db), repository.NewAuditEventPostgresRepository(db), nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func (c *Container) buildNotifier(ctx context.Context) (interfaces.INotifier, error) {
	cfg := c.Config
	switch cfg.Notifier {
	case config.NotifierLog:
		return messaging.NewLogNotifier(cfg.PublicBaseURL), nil
	case config.NotifierSQS:
		awsCfg, err := c.aws(ctx)
		if err != nil {
			return nil, err
		}
		return messaging.NewSQSNotifier(messaging.NewSQSClient(awsCfg, cfg.SQSEndpoint), cfg.SQSQueueURL, cfg.PublicBaseURL), nil
	case config.NotifierRabbitMQ:
		n, err := messaging.DialRabbitMQNotifier(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, n.Close)
		return n, nil
	}
	return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
}

func (c *Container) buildImageStore(ctx context.Context) (interfaces.ISignatureImageStore, error) {
	cfg := c.Config
	switch cfg.SignatureStore {
	case config.SignatureStoreInline:
		return storage.InlineSignatureStore{}, nil
	case config.SignatureStoreS3:
		awsCfg, err := c.aws(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewS3SignatureStore(storage.NewS3Client(awsCfg, cfg.S3Endpoint), cfg.S3Bucket), nil
	}
	return nil, fmt.Errorf("unknown signature store %q", cfg.SignatureStore)
}

// aws loads the shared AWS configuration once.
func (c *Container) aws(ctx context.Context) (aws.Config, error) {
	if c.awsCfg != nil {
		return *c.awsCfg, nil
	}
	awsCfg, err := database.NewAWSConfig(ctx, c.Config)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	c.awsCfg = &awsCfg
	return awsCfg, nil
}

// Close waits for in-flight notifications, then releases connections in
// reverse order of creation.
func (c *Container) Close() error {
	if c.Lifecycle != nil {
		c.Lifecycle.Drain()
	}
	return c.closeAll()
}

func (c *Container) closeAll() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
