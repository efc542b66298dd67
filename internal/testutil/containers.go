package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer runs req. The container is terminated on test cleanup.
func startContainer(t *testing.T, req testcontainers.ContainerRequest) (context.Context, testcontainers.Container) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		_ = container.Terminate(cleanupCtx)
	})

	return ctx, container
}

// StartRabbitMQ launches a RabbitMQ broker and returns its AMQP URL.
func StartRabbitMQ(t *testing.T) string {
	t.Helper()

	ctx, container := startContainer(t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5672")
	require.NoError(t, err)

	return "amqp://guest:guest@" + host + ":" + mappedPort.Port() + "/"
}

const (
	pgUser     = "storefront"
	pgPassword = "storefront"
	pgDatabase = "storefront"
)

// StartPostgres launches an empty Postgres and returns its DSN.
func StartPostgres(t *testing.T) string {
	t.Helper()

	ctx, container := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDatabase,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return "postgres://" + pgUser + ":" + pgPassword + "@" + host + ":" + mappedPort.Port() + "/" + pgDatabase + "?sslmode=disable"
}
