package vm

import (
	"context"
	"fmt"

	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/resource"
)

// mockInfoClient returns a scripted sequence of handles.
type mockInfoClient struct {
	sequence []resource.Handle
	err      error

	// Call tracking
	infoCalls []int
}

func (m *mockInfoClient) Info(_ context.Context, kind resource.Kind, id int) (*resource.Handle, error) {
	m.infoCalls = append(m.infoCalls, id)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) == 0 {
		return nil, fmt.Errorf("%s %d: %w", kind, id, one.ErrNoExists)
	}

	i := len(m.infoCalls) - 1
	if i >= len(m.sequence) {
		i = len(m.sequence) - 1
	}
	h := m.sequence[i]
	return &h, nil
}

func vmIn(state State, lcm LCMState) resource.Handle {
	return resource.Handle{Kind: resource.KindVM, ID: 1, State: int(state), LCMState: int(lcm)}
}
