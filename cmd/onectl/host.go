package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/onectl/internal/module"
	"github.com/jbweber/onectl/internal/resource"
	"github.com/jbweber/onectl/internal/vm"
	"github.com/jbweber/onectl/internal/wait"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Manage hosts",
}

func init() {
	hostCmd.AddCommand(hostWaitCmd)
	addWaitFlags(hostWaitCmd)
}

var hostWaitCmd = &cobra.Command{
	Use:   "wait <id|name>",
	Short: "Wait for a host to reach a state",
	Long: `Poll a host until it reaches one of the target states. Without --target
the host is expected to become MONITORED, and ERROR or MONITORING_ERROR
fail the wait.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := invocation{request: "host wait " + args[0]}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			h, err := inv.Locator.RequireArg(ctx, resource.KindHost, args[0])
			if err != nil {
				return err
			}

			opts := vm.WaitOptions{
				Target:     waitTarget,
				Invalid:    waitInvalid,
				Transition: waitTransition,
				Timeout:    waitTimeout,
			}
			if len(opts.Target) == 0 {
				opts.Target = []string{"MONITORED"}
				if len(opts.Invalid) == 0 {
					opts.Invalid = []string{"ERROR", "MONITORING_ERROR"}
				}
			}

			spec, err := vm.HostSpec(inv.Client, h.ID, opts)
			if err != nil {
				return err
			}

			state, err := wait.Wait(ctx, inv.Waiter, spec)
			if err != nil {
				return err
			}
			inv.Exit(false, fmt.Sprintf("host %s reached %s", h.Name, state))
			return nil
		})
	},
}
