package store

import (
	"context"
	"errors"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MockPgPool implements logic.PgPool with overridable funcs.
type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Tx           *MockTx
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return nil, errors.New("unexpected Query")
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockRow{ScanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *MockPgPool) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.Tx == nil {
		m.Tx = &MockTx{}
	}
	return m.Tx, nil
}

// MockTx records the statements sent through a transaction.
type MockTx struct {
	pgx.Tx
	Execs      []string
	Batches    []*pgx.Batch
	Committed  bool
	RolledBack bool
	BatchErr   error
}

func (m *MockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Execs = append(m.Execs, sql)
	return pgconn.CommandTag{}, nil
}

func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	m.Batches = append(m.Batches, b)
	return &MockBatchResults{err: m.BatchErr}
}

func (m *MockTx) Commit(ctx context.Context) error {
	m.Committed = true
	return nil
}

func (m *MockTx) Rollback(ctx context.Context) error {
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

type MockBatchResults struct {
	pgx.BatchResults
	err error
}

func (m *MockBatchResults) Close() error {
	return m.err
}

type MockRow struct {
	ScanFunc func(dest ...any) error
}

func (m *MockRow) Scan(dest ...any) error {
	return m.ScanFunc(dest...)
}

// MockPGXRows serves a fixed set of rows through Scan.
type MockPGXRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (m *MockPGXRows) Close()     {}
func (m *MockPGXRows) Err() error { return nil }
func (m *MockPGXRows) Next() bool {
	m.idx++
	return m.idx <= len(m.rows)
}

func (m *MockPGXRows) Scan(dest ...any) error {
	return assign(m.rows[m.idx-1], dest)
}

// MockClickHouseConn implements the driver.Conn methods the store uses.
type MockClickHouseConn struct {
	driver.Conn
	Statements []string
	ExecErr    error
	QueryArgs  []any
	Rows       [][]any
}

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...any) error {
	m.Statements = append(m.Statements, query)
	return m.ExecErr
}

func (m *MockClickHouseConn) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	m.QueryArgs = args
	return &MockCHRows{rows: m.Rows}, nil
}

type MockCHRows struct {
	driver.Rows
	rows [][]any
	idx  int
}

func (m *MockCHRows) Next() bool {
	m.idx++
	return m.idx <= len(m.rows)
}

func (m *MockCHRows) Scan(dest ...any) error {
	return assign(m.rows[m.idx-1], dest)
}

func (m *MockCHRows) Close() error { return nil }
func (m *MockCHRows) Err() error   { return nil }

// assign copies row values into scan destinations of matching types.
func assign(row []any, dest []any) error {
	if len(row) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *float32:
			*d = v.(float32)
		case **int32:
			*d, _ = v.(*int32)
		case *[]byte:
			*d = v.([]byte)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return errors.New("unsupported scan destination")
		}
	}
	return nil
}
