package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing. Only PrepareBatch
// is exercised by the pool.
type MockClickHouseConn struct {
	driver.Conn

	mu         sync.Mutex
	Batches    []*MockBatch
	PrepareErr error
	SendErr    error
	AppendFunc func(v ...interface{}) error
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.PrepareErr != nil {
		return nil, m.PrepareErr
	}
	b := &MockBatch{Query: query, sendErr: m.SendErr, appendFunc: m.AppendFunc}
	m.mu.Lock()
	m.Batches = append(m.Batches, b)
	m.mu.Unlock()
	return b, nil
}

// SentRows returns every row appended to a batch that was sent successfully.
func (m *MockClickHouseConn) SentRows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows [][]interface{}
	for _, b := range m.Batches {
		b.mu.Lock()
		if b.sent {
			rows = append(rows, b.rows...)
		}
		b.mu.Unlock()
	}
	return rows
}

type MockBatch struct {
	mu      sync.Mutex
	Query   string
	rows    [][]interface{}
	sent    bool
	sendErr error

	appendFunc func(v ...interface{}) error
}

func (m *MockBatch) IsSent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func (m *MockBatch) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MockBatch) Append(v ...interface{}) error {
	if len(v) != 14 {
		return errors.New("unexpected column count")
	}
	if m.appendFunc != nil {
		if err := m.appendFunc(v...); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, v)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error {
	return nil
}

func (m *MockBatch) Column(int) driver.BatchColumn {
	return nil
}

func (m *MockBatch) Send() error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = true
	return nil
}

func (m *MockBatch) Flush() error {
	return nil
}

func (m *MockBatch) Abort() error {
	return nil
}
