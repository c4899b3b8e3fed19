package cli

import (
	"context"
	"io"
	"time"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/database/postgres"
	"github.com/turtacn/titleorder/internal/infrastructure/database/redis"
	"github.com/turtacn/titleorder/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/infrastructure/storage/minio"
	"github.com/turtacn/titleorder/pkg/errors"
)

// PlacementStore reads recorded placements.
type PlacementStore interface {
	GetPlacement(ctx context.Context, id string) (*order.Placement, error)
	ListByMatter(ctx context.Context, matter string, limit int) ([]*order.Placement, error)
}

// SchemaMigrator applies and inspects the ledger schema.
type SchemaMigrator interface {
	Migrate() error
	Rollback(steps int) error
	MigrationStatus() (postgres.MigrationState, error)
	Close() error
}

// EventSource streams order events until its context ends.
type EventSource interface {
	Run(ctx context.Context, h kafka.Handler) error
	Close() error
}

// ArchiveLister lists archived provider payloads.
type ArchiveLister interface {
	List(ctx context.Context, prefix string, limit int) ([]minio.ArchivedPayload, error)
}

// CacheInvalidator drops cached search payloads of one jurisdiction.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, jurisdiction string) (int64, error)
}

// Backends opens the infrastructure behind the operational commands.  Tests
// replace individual openers with fakes.
type Backends struct {
	Serve   func(ctx context.Context, cliCtx *CLIContext) error
	Ledger  func(ctx context.Context, cfg *config.Config, log logging.Logger) (PlacementStore, io.Closer, error)
	Schema  func(cfg *config.Config, log logging.Logger) (SchemaMigrator, error)
	Events  func(cfg *config.Config, group string, log logging.Logger) (EventSource, error)
	Archive func(ctx context.Context, cfg *config.Config, log logging.Logger) (ArchiveLister, io.Closer, error)
	Cache   func(ctx context.Context, cfg *config.Config, log logging.Logger) (CacheInvalidator, io.Closer, error)
}

// DefaultBackends connects to PostgreSQL, Kafka, MinIO and Redis as configured.
func DefaultBackends() Backends {
	return Backends{
		Serve:   runServer,
		Ledger:  openLedger,
		Schema:  openSchema,
		Events:  openEvents,
		Archive: openArchive,
		Cache:   openCache,
	}
}

func openLedger(_ context.Context, cfg *config.Config, log logging.Logger) (PlacementStore, io.Closer, error) {
	if !cfg.Database.Enabled {
		return nil, nil, errors.InvalidParam("the order ledger is disabled").WithDetail("set database.enabled")
	}
	conn, err := postgres.NewConnection(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewLedger(conn, log), conn, nil
}

func openSchema(cfg *config.Config, log logging.Logger) (SchemaMigrator, error) {
	if !cfg.Database.Enabled {
		return nil, errors.InvalidParam("the order ledger is disabled").WithDetail("set database.enabled")
	}
	return postgres.NewConnection(cfg.Database, log)
}

func openEvents(cfg *config.Config, group string, log logging.Logger) (EventSource, error) {
	if !cfg.Kafka.Enabled {
		return nil, errors.InvalidParam("order events are disabled").WithDetail("set kafka.enabled")
	}
	return kafka.NewConsumer(cfg.Kafka, group, log)
}

func openArchive(ctx context.Context, cfg *config.Config, log logging.Logger) (ArchiveLister, io.Closer, error) {
	if !cfg.MinIO.Enabled {
		return nil, nil, errors.InvalidParam("the payload archive is disabled").WithDetail("set minio.enabled")
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	c, err := minio.NewClient(ctx, cfg.MinIO, log)
	if err != nil {
		return nil, nil, err
	}
	return minio.NewPayloadArchive(c), c, nil
}

func openCache(_ context.Context, cfg *config.Config, log logging.Logger) (CacheInvalidator, io.Closer, error) {
	if !cfg.Redis.Enabled {
		return nil, nil, errors.InvalidParam("the search cache is disabled").WithDetail("set redis.enabled")
	}
	c, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewCachingTransport(nil, c, log, redis.WithPrefix(cfg.Redis.KeyPrefix)), c, nil
}
