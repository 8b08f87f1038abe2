package vm

import (
	"context"

	"github.com/jbweber/onectl/internal/resource"
)

// infoClient defines the remote operations needed to poll an object.
//
// In production, this is satisfied by *one.Client.
// In tests, this is satisfied by mock implementations.
type infoClient interface {
	// Info fetches a single object by ID
	Info(ctx context.Context, kind resource.Kind, id int) (*resource.Handle, error)
}
