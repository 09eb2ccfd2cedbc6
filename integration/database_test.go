//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestLangtrendsWithMySQL tests the langtrends CLI with a MySQL backend.
func TestLangtrendsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "langtrends",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/langtrends", host, port.Port())
	runServerBackend(t, "mysql", connStr)
}

// TestLangtrendsWithPostgres tests the langtrends CLI with a PostgreSQL backend.
func TestLangtrendsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runServerBackend(t, "postgresql", connStr)
}

// runServerBackend drives the whole CLI surface against a server backend.
func runServerBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	env := []string{
		"LANGTRENDS_BACKEND=" + backend,
		"LANGTRENDS_DB_CONNECT=" + connStr,
	}

	// Start from a clean database
	_, err := runLangtrends(t, dir, env, "store", "clear")
	require.NoError(t, err)

	_, err = runLangtrends(t, dir, env, "store", "migrate")
	require.NoError(t, err)

	_, err = runLangtrends(t, dir, env, "import", writeSampleCSV(t, dir))
	require.NoError(t, err)

	chartPath := filepath.Join(dir, "trends.png")
	args := append(append([]string{}, reportArgs...), "--chart", chartPath, "--output", "text")
	out, err := runLangtrends(t, dir, env, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Python")
	assert.FileExists(t, chartPath)

	out, err = runLangtrends(t, dir, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Table languages: 9 rows")

	out, err = runLangtrends(t, dir, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "report: 1")

	_, err = runLangtrends(t, dir, env, "store", "migrate", "--target-version", "0")
	require.NoError(t, err)
}
