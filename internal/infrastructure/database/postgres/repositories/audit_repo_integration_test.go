//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/domain/audit"
	"github.com/bginsber/docketcalc/internal/infrastructure/database/postgres"
	"github.com/bginsber/docketcalc/internal/infrastructure/database/postgres/repositories"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
)

func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "docketcalc",
				"POSTGRES_PASSWORD": "docketcalc",
				"POSTGRES_DB":       "docketcalc_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	conn, err := postgres.NewConnection(config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "docketcalc",
		Password: "docketcalc",
		DBName:   "docketcalc_test",
		SSLMode:  "disable",
		MaxConns: 5,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.RunMigrations("../../../../../migrations"))
	return conn
}

func sampleRecord(jurisdiction, event, baseDate string) *audit.Record {
	return &audit.Record{
		Jurisdiction:  jurisdiction,
		Event:         event,
		BaseDate:      baseDate,
		ServiceMethod: "personal",
		SchemaVersion: "1.0",
		PackPath:      "rulepacks/" + jurisdiction + ".yaml",
		ResultJSON:    []byte(`{"jurisdiction":"` + jurisdiction + `"}`),
	}
}

func TestAuditRepo_SaveAndGetByID(t *testing.T) {
	conn := startPostgres(t)
	repo := repositories.NewPostgresAuditRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	rec := sampleRecord("TX", "served_petition", "2025-10-20")
	require.NoError(t, repo.Save(ctx, rec))
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "TX", got.Jurisdiction)
	assert.Equal(t, "served_petition", got.Event)
	assert.Equal(t, "2025-10-20", got.BaseDate)
	assert.JSONEq(t, string(rec.ResultJSON), string(got.ResultJSON))
}

func TestAuditRepo_GetByID_NotFound(t *testing.T) {
	conn := startPostgres(t)
	repo := repositories.NewPostgresAuditRepo(conn, logging.NewNopLogger())

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
}

func TestAuditRepo_ListFilters(t *testing.T) {
	conn := startPostgres(t)
	repo := repositories.NewPostgresAuditRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, sampleRecord("TX", "served_petition", fmt.Sprintf("2025-10-2%d", i))))
	}
	require.NoError(t, repo.Save(ctx, sampleRecord("FL", "discovery_served", "2025-10-24")))

	all, err := repo.List(ctx, audit.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	tx, err := repo.List(ctx, audit.Filter{Jurisdiction: "TX"})
	require.NoError(t, err)
	assert.Len(t, tx, 3)

	fl, err := repo.List(ctx, audit.Filter{Jurisdiction: "FL", Event: "discovery_served"})
	require.NoError(t, err)
	require.Len(t, fl, 1)
	assert.Equal(t, "2025-10-24", fl[0].BaseDate)

	page, err := repo.List(ctx, audit.Filter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
