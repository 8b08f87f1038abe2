package module

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/jbweber/onectl/internal/config"
	"github.com/jbweber/onectl/internal/locator"
	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/output"
	"github.com/jbweber/onectl/internal/params"
	"github.com/jbweber/onectl/internal/permissions"
	"github.com/jbweber/onectl/internal/resource"
)

func testOptions(t *testing.T, out *bytes.Buffer) Options {
	t.Helper()
	return Options{
		Config:    &config.Config{WaitTimeout: time.Minute, RetryInterval: time.Second},
		Request:   "test",
		Log:       zaptest.NewLogger(t),
		Formatter: &output.JSONFormatter{},
		Out:       out,
	}
}

func run(t *testing.T, opts Options, client Client, fn Func) (output.Result, error) {
	t.Helper()
	return runWithDeps(context.Background(), opts, opts.Log, "run-1", client, fn)
}

func decodeResult(t *testing.T, out *bytes.Buffer) output.Result {
	t.Helper()
	var r output.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	return r
}

func TestRun_Success(t *testing.T) {
	var out bytes.Buffer
	client := newMockClient()
	opts := testOptions(t, &out)

	result, err := run(t, opts, client, func(_ context.Context, inv *Invocation) error {
		assert.Equal(t, "run-1", inv.RunID)
		require.NotNil(t, inv.Locator)
		require.NotNil(t, inv.Setter)
		require.NotNil(t, inv.Waiter)
		inv.Exit(true, "done")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, output.Result{Changed: true, OriginalMessage: "test", Message: "done"}, result)
	assert.Equal(t, result, decodeResult(t, &out), "the result is emitted")
	assert.Equal(t, 1, client.closeCalls)
}

func TestRun_ResolvesParametersOnce(t *testing.T) {
	var out bytes.Buffer
	client := newMockClient()
	client.add(resource.Handle{Kind: resource.KindCluster, ID: 100, Name: "edge"})
	opts := testOptions(t, &out)
	opts.Params = params.Set{"cluster_name": "edge"}

	_, err := run(t, opts, client, func(_ context.Context, inv *Invocation) error {
		assert.Equal(t, 100, inv.Params.Get("cluster_id"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []resource.Kind{resource.KindCluster}, client.poolCalls)
	assert.False(t, opts.Params.IsParameter("cluster_id"))
}

func TestRun_ResolverFailure(t *testing.T) {
	var out bytes.Buffer
	client := newMockClient()
	client.add(resource.Handle{Kind: resource.KindCluster, ID: 100, Name: "edge"})
	client.add(resource.Handle{Kind: resource.KindCluster, ID: 101, Name: "edge"})
	opts := testOptions(t, &out)
	opts.Params = params.Set{"cluster_name": "edge"}

	called := false
	_, err := run(t, opts, client, func(context.Context, *Invocation) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, locator.ErrMultipleMatches)
	assert.False(t, called)
	assert.Equal(t, 1, client.closeCalls)
}

func TestRun_Failure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "not found",
			err:     &locator.NotFoundError{Kind: resource.KindVM, Query: "name=web"},
			wantMsg: "there is no VM with name=web",
		},
		{
			name:    "remote exception",
			err:     fmt.Errorf("one.vm.info: %w: boom", one.ErrRemote),
			wantMsg: "OpenNebula Exception: one.vm.info: remote call failed: boom",
		},
		{
			name:    "authorization failure",
			err:     &permissions.AuthorizationFailure{Operation: "Permissions", Err: one.ErrAuthorization},
			wantMsg: "Permissions changing is unsuccessful, but instances are present if you deployed them",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			client := newMockClient()

			result, err := run(t, testOptions(t, &out), client, func(_ context.Context, inv *Invocation) error {
				inv.Result.Changed = true
				return tt.err
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var failure *Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.wantMsg, failure.Message)

			assert.True(t, result.Failed)
			assert.True(t, result.Changed, "partial changes are still reported")
			assert.Equal(t, tt.wantMsg, decodeResult(t, &out).Message)
			assert.Equal(t, 1, client.closeCalls)
		})
	}
}

func TestRun_Panic(t *testing.T) {
	var out bytes.Buffer
	client := newMockClient()

	_, err := run(t, testOptions(t, &out), client, func(context.Context, *Invocation) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected failure: boom")
	assert.Equal(t, 1, client.closeCalls, "session is closed after a panic")
}

func TestRun_CloseErrorIsLogged(t *testing.T) {
	var out bytes.Buffer
	client := newMockClient()
	client.closeErr = errors.New("already closed")

	_, err := run(t, testOptions(t, &out), client, func(context.Context, *Invocation) error { return nil })
	assert.NoError(t, err)
}

func TestRun_CheckModeReachesSetter(t *testing.T) {
	var out bytes.Buffer
	client := newMockClient()
	perm := resource.Permissions{OwnerU: 1}
	client.add(resource.Handle{Kind: resource.KindVM, ID: 1, Permissions: &perm})
	opts := testOptions(t, &out)
	opts.CheckMode = true

	result, err := run(t, opts, client, func(ctx context.Context, inv *Invocation) error {
		changed, err := inv.Setter.SetPermissions(ctx, []resource.Handle{{Kind: resource.KindVM, ID: 1}}, "600")
		inv.Exit(changed, "permissions")
		return err
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Zero(t, client.chmodCalls)
}

func TestRun_NoFormatter(t *testing.T) {
	client := newMockClient()
	opts := testOptions(t, nil)
	opts.Formatter = nil

	_, err := run(t, opts, client, func(context.Context, *Invocation) error { return nil })
	assert.NoError(t, err)
}

func TestRun_SkipSuccessReport(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.SkipSuccessReport = true

	_, err := run(t, opts, newMockClient(), func(context.Context, *Invocation) error { return nil })
	require.NoError(t, err)
	assert.Empty(t, out.String())

	_, err = run(t, opts, newMockClient(), func(context.Context, *Invocation) error { return errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, "boom", decodeResult(t, &out).Message, "failures are always reported")
}

func TestRun_RequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{Log: zap.NewNop()}, nil)
	require.Error(t, err)
}

func TestRun_ConnectFailure(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.Config.APIURL = "http://127.0.0.1:1/RPC2"

	_, err := Run(context.Background(), opts, func(context.Context, *Invocation) error {
		t.Fatal("must not run without a client")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, one.ErrConnectivity)
	assert.Contains(t, decodeResult(t, &out).Message, "no credentials provided")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "OpenNebula Exception: x: remote call failed",
		Message(fmt.Errorf("x: %w", one.ErrRemote)))
}
