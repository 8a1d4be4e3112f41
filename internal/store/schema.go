package store

import (
	"context"
	"embed"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/logic"
)

//go:embed migrations
var migrations embed.FS

const (
	postgresSchema   = "migrations/postgres/001_initial_schema.sql"
	clickhouseSchema = "migrations/clickhouse/001_initial_schema.sql"
)

// SchemaInstaller applies the bundled migrations to both databases.
type SchemaInstaller struct {
	pg     logic.PgPool
	ch     driver.Conn
	logger *zap.SugaredLogger
}

func NewSchemaInstaller(pg logic.PgPool, ch driver.Conn, logger *zap.Logger) *SchemaInstaller {
	return &SchemaInstaller{pg: pg, ch: ch, logger: logger.Sugar()}
}

// InstallSchema runs both migrations and reports per-database results.
// It returns false if either failed.
func (s *SchemaInstaller) InstallSchema(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string)
	ok := true

	if err := s.InstallPostgres(ctx); err != nil {
		results["postgres"] = "failed: " + err.Error()
		ok = false
	} else {
		results["postgres"] = "success"
	}

	if err := s.InstallClickHouse(ctx); err != nil {
		results["clickhouse"] = "failed: " + err.Error()
		ok = false
	} else {
		results["clickhouse"] = "success"
	}

	return results, ok
}

func (s *SchemaInstaller) InstallPostgres(ctx context.Context) error {
	content, err := migrations.ReadFile(postgresSchema)
	if err != nil {
		s.logger.Errorw("failed to read schema file", "db", "PostgreSQL", "path", postgresSchema, "error", err)
		return err
	}

	if _, err := s.pg.Exec(ctx, string(content)); err != nil {
		s.logger.Errorw("failed to execute schema", "db", "PostgreSQL", "error", err)
		return err
	}

	s.logger.Infow("successfully installed schema", "db", "PostgreSQL")
	return nil
}

// InstallClickHouse executes the migration one statement at a time.
func (s *SchemaInstaller) InstallClickHouse(ctx context.Context) error {
	content, err := migrations.ReadFile(clickhouseSchema)
	if err != nil {
		s.logger.Errorw("failed to read schema file", "db", "ClickHouse", "path", clickhouseSchema, "error", err)
		return err
	}

	for _, stmt := range splitStatements(string(content)) {
		if err := s.ch.Exec(ctx, stmt); err != nil {
			s.logger.Warnw("statement execution failed", "db", "ClickHouse", "error", err, "statement", stmt[:min(len(stmt), 50)]+"...")
			return err
		}
	}

	s.logger.Infow("successfully installed schema", "db", "ClickHouse")
	return nil
}

func splitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
