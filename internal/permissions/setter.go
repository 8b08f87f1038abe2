package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/resource"
)

// ErrAuthorizationFailure matches every *AuthorizationFailure.
var ErrAuthorizationFailure = errors.New("authorization failure")

// AuthorizationFailure reports a refused chmod or chown. The resources the
// change was applied to may already exist or be running; the message always
// says so.
type AuthorizationFailure struct {
	// Operation is "Permissions" or "Ownership".
	Operation string
	Kind      resource.Kind
	ID        int
	Err       error
}

func (e *AuthorizationFailure) Error() string {
	return fmt.Sprintf("%s changing is unsuccessful, but instances are present if you deployed them", e.Operation)
}

func (e *AuthorizationFailure) Unwrap() error { return e.Err }

func (e *AuthorizationFailure) Is(target error) bool {
	return target == ErrAuthorizationFailure
}

// Client is the remote access needed to change permissions and ownership.
// In production, this is satisfied by *one.Client.
type Client interface {
	Info(ctx context.Context, kind resource.Kind, id int) (*resource.Handle, error)
	Chmod(ctx context.Context, kind resource.Kind, id int, bits [9]int) error
	Chown(ctx context.Context, kind resource.Kind, id, ownerID, groupID int) error
}

// Setter applies permission and ownership changes. In check mode it reports
// what would change without issuing any mutating call.
type Setter struct {
	client    Client
	checkMode bool
	log       *zap.Logger
}

// NewSetter creates a Setter.
func NewSetter(client Client, checkMode bool, log *zap.Logger) *Setter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Setter{client: client, checkMode: checkMode, log: log}
}

// Current re-reads an object and returns its permissions as an octal string.
func (s *Setter) Current(ctx context.Context, kind resource.Kind, id int) (string, error) {
	h, err := s.client.Info(ctx, kind, id)
	if err != nil {
		return "", fmt.Errorf("failed to get %s %d: %w", kind, id, err)
	}
	return currentPermissions(h), nil
}

func currentPermissions(h *resource.Handle) string {
	if h.Permissions == nil {
		return Encode(resource.Permissions{})
	}
	return Encode(*h.Permissions)
}

// SetPermissions converges every handle to the desired octal permissions.
// It returns true if at least one handle differs.
func (s *Setter) SetPermissions(ctx context.Context, handles []resource.Handle, desired string) (bool, error) {
	perm, err := Decode(desired)
	if err != nil {
		return false, err
	}

	changed := false
	for _, h := range handles {
		current, err := s.Current(ctx, h.Kind, h.ID)
		if err != nil {
			return changed, err
		}
		if current == desired {
			continue
		}
		changed = true

		log := s.log.With(zap.String("kind", string(h.Kind)), zap.Int("id", h.ID),
			zap.String("from", current), zap.String("to", desired))
		if s.checkMode {
			log.Info("check mode: permissions would change")
			continue
		}

		log.Info("changing permissions")
		if err := s.client.Chmod(ctx, h.Kind, h.ID, perm.Bits()); err != nil {
			return changed, s.wrap("Permissions", h, err)
		}
	}

	return changed, nil
}

// SetOwnership converges every handle to the desired owner and group. A nil
// ownerID or groupID keeps the current value of each handle.
func (s *Setter) SetOwnership(ctx context.Context, handles []resource.Handle, ownerID, groupID *int) (bool, error) {
	changed := false
	for _, h := range handles {
		current, err := s.client.Info(ctx, h.Kind, h.ID)
		if err != nil {
			return changed, fmt.Errorf("failed to get %s %d: %w", h.Kind, h.ID, err)
		}

		uid, gid := current.UID, current.GID
		if ownerID != nil {
			uid = *ownerID
		}
		if groupID != nil {
			gid = *groupID
		}

		if uid == current.UID && gid == current.GID {
			continue
		}
		changed = true

		log := s.log.With(zap.String("kind", string(h.Kind)), zap.Int("id", h.ID),
			zap.Int("uid", uid), zap.Int("gid", gid))
		if s.checkMode {
			log.Info("check mode: ownership would change")
			continue
		}

		log.Info("changing ownership")
		if err := s.client.Chown(ctx, h.Kind, h.ID, uid, gid); err != nil {
			return changed, s.wrap("Ownership", h, err)
		}
	}

	return changed, nil
}

func (s *Setter) wrap(operation string, h resource.Handle, err error) error {
	if errors.Is(err, one.ErrAuthorization) {
		return &AuthorizationFailure{Operation: operation, Kind: h.Kind, ID: h.ID, Err: err}
	}
	return fmt.Errorf("failed to change %s of %s %d: %w", strings.ToLower(operation), h.Kind, h.ID, err)
}
