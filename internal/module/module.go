package module

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jbweber/onectl/internal/config"
	"github.com/jbweber/onectl/internal/locator"
	"github.com/jbweber/onectl/internal/logging"
	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/output"
	"github.com/jbweber/onectl/internal/params"
	"github.com/jbweber/onectl/internal/permissions"
	"github.com/jbweber/onectl/internal/resource"
	"github.com/jbweber/onectl/internal/wait"
)

// remoteExceptionPrefix marks failures reported by the remote system.
const remoteExceptionPrefix = "OpenNebula Exception: "

// Client defines the remote operations an invocation may use.
//
// In production, this is satisfied by *one.Client.
// In tests, this is satisfied by mock implementations.
type Client interface {
	Pool(ctx context.Context, kind resource.Kind) ([]resource.Handle, error)
	Info(ctx context.Context, kind resource.Kind, id int) (*resource.Handle, error)
	Chmod(ctx context.Context, kind resource.Kind, id int, bits [9]int) error
	Chown(ctx context.Context, kind resource.Kind, id, ownerID, groupID int) error
	Ping(ctx context.Context) (string, error)
	RetryInterval() time.Duration
	Close() error
}

// Options configures one invocation.
type Options struct {
	Config *config.Config
	Params params.Set

	// CheckMode reports changes without issuing mutating calls.
	CheckMode bool

	// Request describes what was asked for and is reported back as the
	// original message of the result.
	Request string

	Log *zap.Logger

	// Formatter renders the result to Out. If nil, nothing is written.
	Formatter output.Formatter
	// Out defaults to stdout.
	Out io.Writer

	// SkipSuccessReport writes the result only on failure, for commands
	// whose output is the data itself.
	SkipSuccessReport bool
}

// Invocation is what a command sees while it runs.
type Invocation struct {
	Params    params.Set
	CheckMode bool
	RunID     string
	Log       *zap.Logger

	Client  Client
	Locator *locator.Locator
	Setter  *permissions.Setter
	Waiter  *wait.Waiter

	// Result is reported when the command returns nil.
	Result output.Result
}

// Exit records a successful outcome.
func (inv *Invocation) Exit(changed bool, message string) {
	inv.Result.Changed = inv.Result.Changed || changed
	inv.Result.Message = message
}

// Func is the body of a command.
type Func func(ctx context.Context, inv *Invocation) error

// Failure is the error returned by Run when the invocation failed.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Message renders err for the failure report.
func Message(err error) string {
	if errors.Is(err, one.ErrRemote) {
		return remoteExceptionPrefix + err.Error()
	}
	return err.Error()
}

// Run connects to OpenNebula and runs fn.
func Run(ctx context.Context, opts Options, fn Func) (output.Result, error) {
	if opts.Config == nil {
		return output.Result{}, fmt.Errorf("module: config is required")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	log, runID := logging.WithRunID(opts.Log)

	client, err := one.Connect(ctx, opts.Config.Client(), log)
	if err != nil {
		return report(opts, log, output.Result{OriginalMessage: opts.Request}, err)
	}

	return runWithDeps(ctx, opts, log, runID, client, fn)
}

// runWithDeps runs fn with an injected client.
// This allows for testing by accepting interfaces instead of concrete types.
func runWithDeps(ctx context.Context, opts Options, log *zap.Logger, runID string, client Client, fn Func) (output.Result, error) {
	inv := &Invocation{
		Params:    opts.Params,
		CheckMode: opts.CheckMode,
		RunID:     runID,
		Log:       log,
		Client:    client,
		Locator:   locator.New(client),
		Setter:    permissions.NewSetter(client, opts.CheckMode, log),
		Waiter:    wait.New(client.RetryInterval(), opts.Config.WaitTimeout, log),
		Result:    output.Result{OriginalMessage: opts.Request},
	}

	err := execute(ctx, inv, fn)

	if closeErr := client.Close(); closeErr != nil {
		log.Warn("failed to close OpenNebula session", zap.Error(closeErr))
	}

	return report(opts, log, inv.Result, err)
}

func execute(ctx context.Context, inv *Invocation, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	resolved, err := params.Resolve(ctx, inv.Params, inv.Locator)
	if err != nil {
		return err
	}
	inv.Params = resolved

	return fn(ctx, inv)
}

func report(opts Options, log *zap.Logger, result output.Result, err error) (output.Result, error) {
	var failure *Failure
	if err != nil {
		failure = &Failure{Message: Message(err), Err: err}
		result.Failed = true
		result.Message = failure.Message
		log.Error("invocation failed", zap.Error(err), zap.Bool("changed", result.Changed))
	} else {
		log.Debug("invocation succeeded", zap.Bool("changed", result.Changed))
	}

	if opts.Formatter != nil && (failure != nil || !opts.SkipSuccessReport) {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		text, fmtErr := opts.Formatter.FormatResult(result)
		if fmtErr != nil {
			return result, fmt.Errorf("failed to format result: %w", fmtErr)
		}
		if _, writeErr := io.WriteString(out, text); writeErr != nil {
			return result, fmt.Errorf("failed to write result: %w", writeErr)
		}
	}

	if failure != nil {
		return result, failure
	}
	return result, nil
}
