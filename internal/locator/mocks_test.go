package locator

import (
	"context"
	"fmt"

	"github.com/jbweber/onectl/internal/resource"
)

// mockClient is a mock implementation of the Client interface for testing.
type mockClient struct {
	pools   map[resource.Kind][]resource.Handle
	poolErr error
	infoErr error

	// Call tracking
	poolCalls []resource.Kind
	infoCalls []int
}

func newMockClient() *mockClient {
	return &mockClient{pools: map[resource.Kind][]resource.Handle{}}
}

func (m *mockClient) add(kind resource.Kind, id int, name string) {
	m.pools[kind] = append(m.pools[kind], resource.Handle{Kind: kind, ID: id, Name: name})
}

func (m *mockClient) Pool(_ context.Context, kind resource.Kind) ([]resource.Handle, error) {
	m.poolCalls = append(m.poolCalls, kind)
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	// Return a copy so callers cannot mutate the fixture
	return append([]resource.Handle(nil), m.pools[kind]...), nil
}

func (m *mockClient) Info(_ context.Context, kind resource.Kind, id int) (*resource.Handle, error) {
	m.infoCalls = append(m.infoCalls, id)
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	for _, h := range m.pools[kind] {
		if h.ID == id {
			found := h
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s %d not in fixture", kind, id)
}
