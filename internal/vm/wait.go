package vm

import (
	"context"
	"fmt"
	"time"

	"github.com/jbweber/onectl/internal/resource"
	"github.com/jbweber/onectl/internal/wait"
)

// WaitOptions lists the states of a wait by name.
type WaitOptions struct {
	Target     []string
	Invalid    []string
	Transition []string
	Timeout    time.Duration
}

// StatusSpec builds a wait on the status of VM id. State names are
// validated against the known VM state names.
func StatusSpec(client infoClient, id int, opts WaitOptions) (wait.Spec[string], error) {
	target, err := ParseStatuses(opts.Target)
	if err != nil {
		return wait.Spec[string]{}, err
	}
	if len(target) == 0 {
		return wait.Spec[string]{}, fmt.Errorf("at least one target state is required")
	}
	invalid, err := ParseStatuses(opts.Invalid)
	if err != nil {
		return wait.Spec[string]{}, err
	}
	transition, err := ParseStatuses(opts.Transition)
	if err != nil {
		return wait.Spec[string]{}, err
	}

	return wait.Spec[string]{
		Element: "VM",
		State: func(ctx context.Context) (string, error) {
			h, err := client.Info(ctx, resource.KindVM, id)
			if err != nil {
				return "", err
			}
			return Status(h), nil
		},
		Target:     target,
		Invalid:    invalid,
		Transition: transition,
		Timeout:    opts.Timeout,
	}, nil
}

// RunningSpec waits for VM id to be RUNNING. Failure states are invalid.
func RunningSpec(client infoClient, id int, timeout time.Duration) wait.Spec[string] {
	spec, _ := StatusSpec(client, id, WaitOptions{
		Target:     []string{"RUNNING"},
		Invalid:    []string{"FAILURE", "BOOT_FAILURE", "PROLOG_FAILURE", "DONE"},
		Transition: []string{"PENDING", "HOLD", "LCM_INIT", "PROLOG", "BOOT"},
		Timeout:    timeout,
	})
	return spec
}

// HostSpec builds a wait on the state of host id.
func HostSpec(client infoClient, id int, opts WaitOptions) (wait.Spec[HostState], error) {
	target, err := ParseHostStates(opts.Target)
	if err != nil {
		return wait.Spec[HostState]{}, err
	}
	if len(target) == 0 {
		return wait.Spec[HostState]{}, fmt.Errorf("at least one target state is required")
	}
	invalid, err := ParseHostStates(opts.Invalid)
	if err != nil {
		return wait.Spec[HostState]{}, err
	}
	transition, err := ParseHostStates(opts.Transition)
	if err != nil {
		return wait.Spec[HostState]{}, err
	}

	return wait.Spec[HostState]{
		Element: "HOST",
		State: func(ctx context.Context) (HostState, error) {
			h, err := client.Info(ctx, resource.KindHost, id)
			if err != nil {
				return 0, err
			}
			return HostState(h.State), nil
		},
		StateName:  HostState.String,
		Target:     target,
		Invalid:    invalid,
		Transition: transition,
		Timeout:    opts.Timeout,
	}, nil
}
