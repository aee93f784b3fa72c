package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
)

// WriteCall records one Write on a MockWriter.
type WriteCall struct {
	Error    error
	Summary  *service.ReportSummary
	Receipts []model.Receipt
}

// MockWriter is an in-memory ReportWriter that records what it was given.
type MockWriter struct {
	err          error
	LastReceipts []model.Receipt
	calls        []WriteCall
	mu           sync.Mutex
}

// NewMockWriter creates a mock writer that succeeds until SetWriteError is called.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements service.ReportWriter.
func (m *MockWriter) Write(_ context.Context, receipts []model.Receipt, summary *service.ReportSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastReceipts = receipts
	m.calls = append(m.calls, WriteCall{Receipts: receipts, Summary: summary, Error: m.err})
	return m.err
}

// SetWriteError makes every later Write return err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetWriteCalls returns a copy of the recorded calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteCall(nil), m.calls...)
}

// Reset forgets recorded calls. A configured error stays.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.LastReceipts = nil
}

// AssertWriteCalled fails t unless Write ran exactly n times.
func (m *MockWriter) AssertWriteCalled(t interface{ Fatalf(string, ...any) }, n int) {
	if got := len(m.GetWriteCalls()); got != n {
		t.Fatalf("expected Write to be called %d times, but was called %d times", n, got)
	}
}
