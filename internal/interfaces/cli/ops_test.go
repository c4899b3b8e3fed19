package cli

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/database/postgres"
	"github.com/turtacn/titleorder/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/infrastructure/storage/minio"
	"github.com/turtacn/titleorder/pkg/errors"
)

// ─── migrate ─────────────────────────────────────────────────────────────────

type fakeMigrator struct {
	state    postgres.MigrationState
	calls    []string
	rollback int
	closed   bool
}

func (f *fakeMigrator) Migrate() error {
	f.calls = append(f.calls, "up")
	f.state.Version = 3
	return nil
}

func (f *fakeMigrator) Rollback(steps int) error {
	f.calls = append(f.calls, "down")
	f.rollback = steps
	f.state.Version -= uint(steps)
	return nil
}

func (f *fakeMigrator) MigrationStatus() (postgres.MigrationState, error) { return f.state, nil }

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func schemaBackends(m *fakeMigrator) Backends {
	return Backends{Schema: func(*config.Config, logging.Logger) (SchemaMigrator, error) { return m, nil }}
}

func TestMigrateCmd(t *testing.T) {
	m := &fakeMigrator{}
	out, err := run(t, schemaBackends(m), "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "version 3\n", out)

	out, err = run(t, schemaBackends(m), "-o", "json", "migrate", "down", "--steps", "2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"dirty":false}`, out)
	assert.Equal(t, 2, m.rollback)

	m.state.Dirty = true
	out, err = run(t, schemaBackends(m), "migrate", "status")
	require.NoError(t, err)
	assert.Equal(t, "version 1 (dirty)\n", out)

	assert.Equal(t, []string{"up", "down"}, m.calls)
	assert.True(t, m.closed)
}

func TestMigrateCmd_RejectsNonPositiveSteps(t *testing.T) {
	m := &fakeMigrator{}
	_, err := run(t, schemaBackends(m), "migrate", "down", "--steps", "0")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.Empty(t, m.calls)
}

// ─── events ──────────────────────────────────────────────────────────────────

type fakeSource struct {
	envs   []*kafka.EventEnvelope
	group  string
	closed bool
}

func (f *fakeSource) Run(ctx context.Context, h kafka.Handler) error {
	for _, env := range f.envs {
		if ctx.Err() != nil {
			return nil
		}
		if err := h(ctx, env); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func eventBackends(src *fakeSource) Backends {
	return Backends{Events: func(_ *config.Config, group string, _ logging.Logger) (EventSource, error) {
		src.group = group
		return src, nil
	}}
}

func linePlaced(t *testing.T, orderID string) *kafka.EventEnvelope {
	t.Helper()
	env, err := kafka.NewEventEnvelope(kafka.EventTypeLinePlaced, order.LinePlacedEvent{
		OrderID:         orderID,
		Jurisdiction:    "NSW",
		ProductCode:     "NSW-TITLE",
		MatterReference: "MAT-001",
	})
	require.NoError(t, err)
	return env
}

func TestEventsTail(t *testing.T) {
	src := &fakeSource{envs: []*kafka.EventEnvelope{linePlaced(t, "ORD-1"), linePlaced(t, "ORD-2")}}
	out, err := run(t, eventBackends(src), "events", "tail", "--group", "ops")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "matter=MAT-001  NSW  NSW-TITLE  order=ORD-1")
	assert.Contains(t, lines[1], "order=ORD-2")
	assert.Equal(t, "ops", src.group)
	assert.True(t, src.closed)
}

func TestEventsTail_LimitAndJSON(t *testing.T) {
	src := &fakeSource{envs: []*kafka.EventEnvelope{linePlaced(t, "ORD-1"), linePlaced(t, "ORD-2")}}
	out, err := run(t, eventBackends(src), "-o", "json", "events", "tail", "--limit", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	var env kafka.EventEnvelope
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &env))
	assert.Equal(t, kafka.EventTypeLinePlaced, env.EventType)
	assert.True(t, strings.HasPrefix(src.group, "titleorder-tail-"))
}

func TestEventsTail_OtherEventTypes(t *testing.T) {
	env, err := kafka.NewEventEnvelope("order.audit", map[string]string{"k": "v"})
	require.NoError(t, err)
	out, err := run(t, eventBackends(&fakeSource{envs: []*kafka.EventEnvelope{env}}), "events", "tail")
	require.NoError(t, err)
	assert.Contains(t, out, "order.audit  "+env.EventID)
}

// ─── archive ─────────────────────────────────────────────────────────────────

type fakeArchive struct {
	prefix string
	limit  int
	items  []minio.ArchivedPayload
}

func (f *fakeArchive) List(_ context.Context, prefix string, limit int) ([]minio.ArchivedPayload, error) {
	f.prefix, f.limit = prefix, limit
	return f.items, nil
}

func archiveBackends(a *fakeArchive) Backends {
	return Backends{Archive: func(context.Context, *config.Config, logging.Logger) (ArchiveLister, io.Closer, error) {
		return a, nil, nil
	}}
}

func TestArchiveLs(t *testing.T) {
	a := &fakeArchive{items: []minio.ArchivedPayload{
		{Key: "NSW/2024/05/01/search-1.json", Size: 2048, LastModified: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	}}
	out, err := run(t, archiveBackends(a), "archive", "ls", "--prefix", "NSW/", "--limit", "10")
	require.NoError(t, err)

	assert.Equal(t, "NSW/", a.prefix)
	assert.Equal(t, 10, a.limit)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "KEY")
	assert.Contains(t, lines[2], "2048")
	assert.Contains(t, lines[2], "2024-05-01T09:00:00Z")
}

func TestArchiveLs_EmptyAndBadLimit(t *testing.T) {
	out, err := run(t, archiveBackends(&fakeArchive{}), "-o", "json", "archive", "ls")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	_, err = run(t, archiveBackends(&fakeArchive{}), "archive", "ls", "--limit", "0")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestDefaultOpeners_RequireEnabledBackends(t *testing.T) {
	cfg := &config.Config{}
	log := logging.NewNopLogger()

	_, err := openSchema(cfg, log)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	_, err = openEvents(cfg, "g", log)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	_, _, err = openArchive(context.Background(), cfg, log)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

// ─── cache ───────────────────────────────────────────────────────────────────

type fakeCache struct {
	jurisdictions []string
	removed       int64
}

func (f *fakeCache) Invalidate(_ context.Context, j string) (int64, error) {
	f.jurisdictions = append(f.jurisdictions, j)
	return f.removed, nil
}

func cacheBackends(c *fakeCache, closer *trackingCloser) Backends {
	return Backends{Cache: func(context.Context, *config.Config, logging.Logger) (CacheInvalidator, io.Closer, error) {
		return c, closer, nil
	}}
}

func TestCacheInvalidate(t *testing.T) {
	c := &fakeCache{removed: 7}
	closer := &trackingCloser{}
	out, err := run(t, cacheBackends(c, closer), "cache", "invalidate", "victoria")
	require.NoError(t, err)
	assert.Equal(t, "VIC: 7 cached payloads removed\n", out)
	assert.Equal(t, []string{"VIC"}, c.jurisdictions)
	assert.Equal(t, 1, closer.closed)

	out, err = run(t, cacheBackends(c, &trackingCloser{}), "-o", "json", "cache", "invalidate", "NSW")
	require.NoError(t, err)
	assert.JSONEq(t, `{"jurisdiction":"NSW","removed":7}`, out)
}

func TestCacheInvalidate_UnknownJurisdiction(t *testing.T) {
	c := &fakeCache{}
	_, err := run(t, cacheBackends(c, &trackingCloser{}), "cache", "invalidate", "atlantis")
	require.Error(t, err)
	assert.Empty(t, c.jurisdictions)

	_, _, err = openCache(context.Background(), &config.Config{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}
