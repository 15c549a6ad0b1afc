package tests

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/docker/go-connections/nat"
	"github.com/eskrenkovic/migrate-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"
)

const (
	SkipInfrastructureEnv = "SKIP_INFRASTRUCTURE"
	TestDatabaseURLEnv    = "TEST_DATABASE_URL"

	postgresImage    = "postgres:15-alpine"
	postgresUser     = "movieduel"
	postgresPassword = "movieduel"
	postgresDatabase = "movieduel"
)

// SkipInfrastructure reports whether tests that need docker should be
// skipped.
func SkipInfrastructure() bool {
	return os.Getenv(SkipInfrastructureEnv) == "true"
}

// PostgresFixture is a migrated postgres database for integration tests.
// When TEST_DATABASE_URL is set that database is used instead of starting
// a container.
type PostgresFixture struct {
	DB          *sql.DB
	DatabaseURL string

	container testcontainers.Container
}

func StartPostgres(ctx context.Context, migrationsPath string) (*PostgresFixture, error) {
	fixture := &PostgresFixture{DatabaseURL: os.Getenv(TestDatabaseURLEnv)}

	if fixture.DatabaseURL == "" {
		if err := fixture.startContainer(ctx); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("postgres", fixture.DatabaseURL)
	if err != nil {
		return nil, fixture.stopOnError(ctx, err)
	}
	fixture.DB = db

	if err := migrate.Run(ctx, db, migrationsPath); err != nil {
		return nil, fixture.stopOnError(ctx, err)
	}

	return fixture, nil
}

func (f *PostgresFixture) startContainer(ctx context.Context) error {
	pgPort := nat.Port("5432/tcp")

	dsn := func(host string, port nat.Port) string {
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser,
			postgresPassword,
			host,
			port.Port(),
			postgresDatabase,
		)
	}

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{string(pgPort)},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		// The wait strategy only gets the mapped port, the container host is
		// known once it has started.
		WaitingFor: wait.ForSQL(pgPort, "postgres", func(port nat.Port) string {
			return dsn("localhost", port)
		}),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	f.container = container

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}

	mappedPort, err := container.MappedPort(ctx, pgPort)
	if err != nil {
		return err
	}

	f.DatabaseURL = dsn(host, mappedPort)
	return nil
}

func (f *PostgresFixture) Stop(ctx context.Context) error {
	if f.DB != nil {
		if err := f.DB.Close(); err != nil {
			return err
		}
	}

	if f.container == nil {
		return nil
	}

	return f.container.Terminate(ctx)
}

func (f *PostgresFixture) stopOnError(ctx context.Context, err error) error {
	if stopErr := f.Stop(ctx); stopErr != nil {
		return fmt.Errorf("%s: %w", stopErr.Error(), err)
	}
	return err
}
