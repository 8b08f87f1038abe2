package locator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/resource"
)

// Client is the remote pool access needed by the locator.
// In production, this is satisfied by *one.Client.
type Client interface {
	Pool(ctx context.Context, kind resource.Kind) ([]resource.Handle, error)
	Info(ctx context.Context, kind resource.Kind, id int) (*resource.Handle, error)
}

// DesiredState is the end state the caller is converging to. Missing VMs
// are only an error when the caller wants them to be present.
type DesiredState string

const (
	StatePresent DesiredState = "present"
	StateAbsent  DesiredState = "absent"
)

// Locate returns the unique handle in pool satisfying s. It returns nil, nil
// when nothing matches.
func Locate(kind resource.Kind, pool []resource.Handle, s Strategy) (*resource.Handle, error) {
	var found *resource.Handle
	count := 0
	name := ""

	for i := range pool {
		if !s.Matches(pool[i]) {
			continue
		}
		count++
		found = &pool[i]
		name = pool[i].Name
	}

	switch {
	case count == 0:
		return nil, nil
	case count > 1:
		return nil, &MultipleMatchesError{Kind: kind, Name: s.label(name)}
	}
	return found, nil
}

// Locator performs lookups against freshly fetched pools. Every call
// re-fetches the pool.
type Locator struct {
	client Client
}

// New creates a Locator.
func New(client Client) *Locator {
	return &Locator{client: client}
}

// Find fetches the pool of kind and returns the unique match, or nil.
func (l *Locator) Find(ctx context.Context, kind resource.Kind, s Strategy) (*resource.Handle, error) {
	pool, err := l.client.Pool(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Plural(), err)
	}
	return Locate(kind, pool, s)
}

// Require is Find with absence turned into a *NotFoundError.
func (l *Locator) Require(ctx context.Context, kind resource.Kind, s Strategy) (*resource.Handle, error) {
	h, err := l.Find(ctx, kind, s)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, &NotFoundError{Kind: kind, Query: s.Describe()}
	}
	return h, nil
}

// Resolve looks an object up by ID when one is supplied, otherwise by name.
// A nil id means no ID was supplied; ID zero is a valid ID.
func (l *Locator) Resolve(ctx context.Context, kind resource.Kind, id *int, name string) (*resource.Handle, error) {
	if id != nil {
		return l.Find(ctx, kind, MatchID(*id))
	}
	return l.Find(ctx, kind, MatchName(name))
}

// ResolveArg interprets a command line argument as an ID when it parses as
// a non-negative integer, otherwise as a name.
func (l *Locator) ResolveArg(ctx context.Context, kind resource.Kind, arg string) (*resource.Handle, error) {
	return l.Find(ctx, kind, argStrategy(arg))
}

// RequireArg is ResolveArg with absence turned into a *NotFoundError.
func (l *Locator) RequireArg(ctx context.Context, kind resource.Kind, arg string) (*resource.Handle, error) {
	return l.Require(ctx, kind, argStrategy(arg))
}

func argStrategy(arg string) Strategy {
	if id, err := strconv.Atoi(arg); err == nil && id >= 0 {
		return MatchID(id)
	}
	return MatchName(arg)
}

// TemplateByName returns the template with the given name, or nil.
func (l *Locator) TemplateByName(ctx context.Context, name string) (*resource.Handle, error) {
	return l.Find(ctx, resource.KindTemplate, MatchName(name))
}

// TemplateByID returns the template with the given ID, or nil.
func (l *Locator) TemplateByID(ctx context.Context, id int) (*resource.Handle, error) {
	return l.Find(ctx, resource.KindTemplate, MatchID(id))
}

// TemplateID resolves a template by ID (preferred) or name. The boolean is
// false when nothing matched.
func (l *Locator) TemplateID(ctx context.Context, id *int, name string) (int, bool, error) {
	return l.resolveID(ctx, resource.KindTemplate, id, name)
}

// DatastoreByName returns the datastore with the given name, or nil.
func (l *Locator) DatastoreByName(ctx context.Context, name string) (*resource.Handle, error) {
	return l.Find(ctx, resource.KindDatastore, MatchName(name))
}

// DatastoreByID returns the datastore with the given ID, or nil.
func (l *Locator) DatastoreByID(ctx context.Context, id int) (*resource.Handle, error) {
	return l.Find(ctx, resource.KindDatastore, MatchID(id))
}

// DatastoreID resolves a datastore by ID (preferred) or name.
func (l *Locator) DatastoreID(ctx context.Context, id *int, name string) (int, bool, error) {
	return l.resolveID(ctx, resource.KindDatastore, id, name)
}

func (l *Locator) resolveID(ctx context.Context, kind resource.Kind, id *int, name string) (int, bool, error) {
	h, err := l.Resolve(ctx, kind, id, name)
	if err != nil {
		return 0, false, err
	}
	if h == nil {
		return 0, false, nil
	}
	return h.ID, true, nil
}

// HostByName returns the host with the given name, or nil.
func (l *Locator) HostByName(ctx context.Context, name string) (*resource.Handle, error) {
	return l.Find(ctx, resource.KindHost, MatchName(name))
}

// ClusterByName returns the cluster with the given name, or nil.
func (l *Locator) ClusterByName(ctx context.Context, name string) (*resource.Handle, error) {
	return l.Find(ctx, resource.KindCluster, MatchName(name))
}

// UserIDByName returns the ID of the named user. A missing user is fatal.
func (l *Locator) UserIDByName(ctx context.Context, name string) (int, error) {
	h, err := l.Require(ctx, resource.KindUser, MatchName(name))
	if err != nil {
		return 0, err
	}
	return h.ID, nil
}

// GroupIDByName returns the ID of the named group. A missing group is fatal.
func (l *Locator) GroupIDByName(ctx context.Context, name string) (int, error) {
	h, err := l.Require(ctx, resource.KindGroup, MatchName(name))
	if err != nil {
		return 0, err
	}
	return h.ID, nil
}

// AllVMs lists every VM the user has access to.
func (l *Locator) AllVMs(ctx context.Context) ([]resource.Handle, error) {
	vms, err := l.client.Pool(ctx, resource.KindVM)
	if err != nil {
		return nil, fmt.Errorf("failed to list vms: %w", err)
	}
	return vms, nil
}

// VMByID fetches a VM through the info call. A VM that does not exist is
// reported as nil, nil.
func (l *Locator) VMByID(ctx context.Context, id int) (*resource.Handle, error) {
	vm, err := l.client.Info(ctx, resource.KindVM, id)
	if errors.Is(err, one.ErrNoExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vm %d: %w", id, err)
	}
	return vm, nil
}

// VMsByIDs selects the VMs whose IDs are listed, in pool order. IDs with no
// VM are an error unless state is StateAbsent.
func (l *Locator) VMsByIDs(ctx context.Context, ids []int, state DesiredState) ([]resource.Handle, error) {
	pool, err := l.AllVMs(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var vms []resource.Handle
	for _, vm := range pool {
		if len(wanted) == 0 {
			break
		}
		if wanted[vm.ID] {
			vms = append(vms, vm)
			delete(wanted, vm.ID)
		}
	}

	if len(wanted) > 0 && state != StateAbsent {
		missing := make([]string, 0, len(wanted))
		for _, id := range ids {
			if wanted[id] {
				missing = append(missing, strconv.Itoa(id))
				delete(wanted, id)
			}
		}
		return nil, &NotFoundError{Kind: resource.KindVM, Query: "id(s)=" + strings.Join(missing, ", ")}
	}

	return vms, nil
}

// VMsByName selects VMs by pattern (see ParsePattern). Regular expressions
// return every match in pool order; an exact name stops at the first hit.
// No match is an error unless state is StateAbsent.
func (l *Locator) VMsByName(ctx context.Context, pattern string, state DesiredState) ([]resource.Handle, error) {
	s, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	pool, err := l.AllVMs(ctx)
	if err != nil {
		return nil, err
	}

	vms := Select(pool, s)
	if len(vms) == 0 && state != StateAbsent {
		return nil, &NotFoundError{Kind: resource.KindVM, Query: "name=" + pattern}
	}
	return vms, nil
}

// Select returns the handles matching s in pool order. For an exact name
// it stops at the first hit.
func Select(pool []resource.Handle, s Strategy) []resource.Handle {
	var out []resource.Handle
	for _, h := range pool {
		if !s.Matches(h) {
			continue
		}
		out = append(out, h)
		if s.Type != ByRegex {
			break
		}
	}
	return out
}
