package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/onectl/internal/locator"
	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/resource"
)

// fakePools serves fixed pools to a locator.
type fakePools map[resource.Kind][]resource.Handle

func (f fakePools) Pool(_ context.Context, kind resource.Kind) ([]resource.Handle, error) {
	return f[kind], nil
}

func (f fakePools) Info(_ context.Context, kind resource.Kind, id int) (*resource.Handle, error) {
	for _, h := range f[kind] {
		if h.ID == id {
			found := h
			return &found, nil
		}
	}
	return nil, one.ErrNoExists
}

func testLocator() *locator.Locator {
	return locator.New(fakePools{
		resource.KindVM: {
			{Kind: resource.KindVM, ID: 10, Name: "web1"},
			{Kind: resource.KindVM, ID: 11, Name: "web2"},
			{Kind: resource.KindVM, ID: 12, Name: "db1"},
		},
		resource.KindUser:  {{Kind: resource.KindUser, ID: 3, Name: "alice"}},
		resource.KindGroup: {{Kind: resource.KindGroup, ID: 1, Name: "users"}},
	})
}

func TestSelectVMs(t *testing.T) {
	ctx := context.Background()
	l := testLocator()
	vmDesiredState = string(locator.StatePresent)

	vms, err := selectVMs(ctx, l, []string{"12", "10"})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 12}, resource.IDs(vms))

	vms, err = selectVMs(ctx, l, []string{"~web.*"})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, resource.IDs(vms))

	_, err = selectVMs(ctx, l, []string{"web1", "db1"})
	assert.Error(t, err, "more than one name pattern")

	_, err = selectVMs(ctx, l, []string{"cache"})
	assert.ErrorIs(t, err, locator.ErrNotFound)

	vmDesiredState = string(locator.StateAbsent)
	defer func() { vmDesiredState = string(locator.StatePresent) }()
	vms, err = selectVMs(ctx, l, []string{"cache"})
	require.NoError(t, err)
	assert.Empty(t, vms)

	vmDesiredState = "running"
	_, err = selectVMs(ctx, l, []string{"web1"})
	assert.Error(t, err)
}

func TestResolveOwner(t *testing.T) {
	ctx := context.Background()
	l := testLocator()

	id, err := resolveOwner(ctx, l, resource.KindUser, "")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = resolveOwner(ctx, l, resource.KindUser, "0")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, 0, *id)

	id, err = resolveOwner(ctx, l, resource.KindUser, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, *id)

	id, err = resolveOwner(ctx, l, resource.KindGroup, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, *id)

	_, err = resolveOwner(ctx, l, resource.KindGroup, "admins")
	assert.ErrorIs(t, err, locator.ErrNotFound)
}
