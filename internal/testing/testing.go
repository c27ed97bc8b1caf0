// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// MockLedger is an in-memory test double for the checkpoint ledger.
type MockLedger struct {
	mu        sync.Mutex
	Done      map[string]string
	MarkErr   error
	MarkCalls int
}

func NewMockLedger(done map[string]string) *MockLedger {
	if done == nil {
		done = map[string]string{}
	}
	return &MockLedger{Done: done}
}

func (l *MockLedger) IsDone(sourceID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.Done[sourceID]
	return ok
}

func (l *MockLedger) MarkDone(sourceID, destID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.MarkCalls++
	if l.MarkErr != nil {
		return l.MarkErr
	}
	l.Done[sourceID] = destID
	return nil
}

func (l *MockLedger) DestID(sourceID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst, ok := l.Done[sourceID]
	return dst, ok && dst != ""
}

func (l *MockLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Done)
}

func (l *MockLedger) Close() error { return nil }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
