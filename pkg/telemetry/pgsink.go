package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
)

// DefaultTable receives telemetry rows when PGConfig.Table is empty.
const DefaultTable = "telemetry"

var pgColumns = []string{"run_id", "scenario", "ts", "node_id", "pressure", "flow"}

// pgConn is the subset of *pgxpool.Pool used by PGSink.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PGConfig configures a PostgreSQL sink.
type PGConfig struct {
	DSN      string
	Table    string
	MaxConns int32
}

// PGSink streams telemetry into PostgreSQL in long format, one row per
// (step, node).
type PGSink struct {
	conn  pgConn
	table string
	pool  *pgxpool.Pool
}

// NewPGSink connects to the database and creates the telemetry table if it
// does not exist.
func NewPGSink(ctx context.Context, config PGConfig) (*PGSink, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := newPGSink(pool, config.Table)
	s.pool = pool
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func newPGSink(conn pgConn, table string) *PGSink {
	if table == "" {
		table = DefaultTable
	}
	return &PGSink{conn: conn, table: table}
}

// Name implements Sink.
func (s *PGSink) Name() string {
	return "postgres"
}

// Migrate creates the telemetry table.
func (s *PGSink) Migrate(ctx context.Context) error {
	table := pgx.Identifier{s.table}.Sanitize()
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		run_id TEXT NOT NULL,
		scenario TEXT NOT NULL,
		ts TIMESTAMP NOT NULL,
		node_id TEXT NOT NULL,
		pressure DOUBLE PRECISION NOT NULL,
		flow DOUBLE PRECISION NOT NULL
	);

	CREATE INDEX IF NOT EXISTS %s ON %s(run_id, scenario, ts);
	`, table, pgx.Identifier{"idx_" + s.table + "_run"}.Sanitize(), table)

	_, err := s.conn.Exec(ctx, schema)
	return err
}

// Write copies every (step, node) sample of the series.
func (s *PGSink) Write(ctx context.Context, runID uuid.UUID, series *simulation.Series) (int64, error) {
	nodes := len(series.Nodes)
	if nodes == 0 || len(series.Rows) == 0 {
		return 0, nil
	}
	run := runID.String()
	src := pgx.CopyFromSlice(len(series.Rows)*nodes, func(i int) ([]any, error) {
		row := series.Rows[i/nodes]
		c := i % nodes
		return []any{run, series.Scenario, row.Timestamp, series.Nodes[c], row.Pressure[c], row.Flow[c]}, nil
	})
	n, err := s.conn.CopyFrom(ctx, pgx.Identifier{s.table}, pgColumns, src)
	if err != nil {
		return n, fmt.Errorf("failed to copy telemetry: %w", err)
	}
	return n, nil
}

// Close releases the connection pool.
func (s *PGSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
