package module

import (
	"context"
	"fmt"
	"time"

	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/resource"
)

// mockClient is a mock implementation of the Client interface for testing.
type mockClient struct {
	pools    map[resource.Kind][]resource.Handle
	poolErr  error
	pingErr  error
	closeErr error

	// Call tracking
	poolCalls  []resource.Kind
	chmodCalls int
	closeCalls int
}

func newMockClient() *mockClient {
	return &mockClient{pools: map[resource.Kind][]resource.Handle{}}
}

func (m *mockClient) add(h resource.Handle) {
	m.pools[h.Kind] = append(m.pools[h.Kind], h)
}

func (m *mockClient) Pool(_ context.Context, kind resource.Kind) ([]resource.Handle, error) {
	m.poolCalls = append(m.poolCalls, kind)
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	return append([]resource.Handle(nil), m.pools[kind]...), nil
}

func (m *mockClient) Info(_ context.Context, kind resource.Kind, id int) (*resource.Handle, error) {
	for _, h := range m.pools[kind] {
		if h.ID == id {
			found := h
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", kind, id, one.ErrNoExists)
}

func (m *mockClient) Chmod(context.Context, resource.Kind, int, [9]int) error {
	m.chmodCalls++
	return nil
}

func (m *mockClient) Chown(context.Context, resource.Kind, int, int, int) error {
	return nil
}

func (m *mockClient) Ping(context.Context) (string, error) {
	return "6.10.0", m.pingErr
}

func (m *mockClient) RetryInterval() time.Duration { return 10 * time.Millisecond }

func (m *mockClient) Close() error {
	m.closeCalls++
	return m.closeErr
}
