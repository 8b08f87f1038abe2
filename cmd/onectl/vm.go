package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jbweber/onectl/internal/locator"
	"github.com/jbweber/onectl/internal/module"
	"github.com/jbweber/onectl/internal/resource"
	"github.com/jbweber/onectl/internal/vm"
	"github.com/jbweber/onectl/internal/wait"
)

// VM command flags
var (
	vmDesiredState string
	vmOwner        string
	vmGroup        string
)

// Wait flags, shared by vm wait and host wait
var (
	waitTarget     []string
	waitInvalid    []string
	waitTransition []string
	waitTimeout    time.Duration
)

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Manage virtual machines",
	Long: `Select virtual machines by ID or name pattern and converge their
permissions and ownership.

Name patterns starting with "~" are regular expressions matched from the
start of the name; "~*" makes the match case-insensitive. Any other pattern
is an exact name.`,
}

func init() {
	vmCmd.AddCommand(vmFindCmd)
	vmCmd.AddCommand(vmChmodCmd)
	vmCmd.AddCommand(vmChownCmd)
	vmCmd.AddCommand(vmWaitCmd)
	vmCmd.AddCommand(vmLabelsCmd)

	for _, c := range []*cobra.Command{vmFindCmd, vmChmodCmd, vmChownCmd} {
		c.Flags().StringVar(&vmDesiredState, "state", string(locator.StatePresent),
			"desired state: present fails when nothing matches, absent does not")
	}

	vmChownCmd.Flags().StringVar(&vmOwner, "owner", "", "new owner, user name or ID (default: keep)")
	vmChownCmd.Flags().StringVar(&vmGroup, "group", "", "new group, group name or ID (default: keep)")

	addWaitFlags(vmWaitCmd)
}

func addWaitFlags(c *cobra.Command) {
	c.Flags().StringSliceVar(&waitTarget, "target", nil, "states that end the wait successfully")
	c.Flags().StringSliceVar(&waitInvalid, "invalid", nil, "states that fail the wait")
	c.Flags().StringSliceVar(&waitTransition, "transition", nil, "only states allowed before the target")
	c.Flags().DurationVar(&waitTimeout, "timeout", 0, "override the default wait timeout")
}

var vmFindCmd = &cobra.Command{
	Use:   "find <pattern|id...>",
	Short: "Select VMs by IDs or name pattern",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := invocation{request: "vm find " + strings.Join(args, " "), data: true}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			vms, err := selectVMs(ctx, inv.Locator, args)
			if err != nil {
				return err
			}
			return printHandles(cmd, vms)
		})
	},
}

var vmChmodCmd = &cobra.Command{
	Use:   "chmod <pattern|id...> <octal>",
	Short: "Set the permissions of VMs",
	Long: `Set the permissions of the selected VMs to a 3-digit octal string
such as 640. VMs that already match are left alone.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		selectors, octal := args[:len(args)-1], args[len(args)-1]

		inv := invocation{request: "vm chmod " + strings.Join(args, " ")}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			vms, err := selectVMs(ctx, inv.Locator, selectors)
			if err != nil {
				return err
			}

			changed, err := inv.Setter.SetPermissions(ctx, vms, octal)
			inv.Exit(changed, fmt.Sprintf("permissions of %d VM(s) set to %s", len(vms), octal))
			return err
		})
	},
}

var vmChownCmd = &cobra.Command{
	Use:   "chown <pattern|id...>",
	Short: "Set the owner and group of VMs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := invocation{request: "vm chown " + strings.Join(args, " ")}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			ownerID, err := resolveOwner(ctx, inv.Locator, resource.KindUser, vmOwner)
			if err != nil {
				return err
			}
			groupID, err := resolveOwner(ctx, inv.Locator, resource.KindGroup, vmGroup)
			if err != nil {
				return err
			}

			vms, err := selectVMs(ctx, inv.Locator, args)
			if err != nil {
				return err
			}

			changed, err := inv.Setter.SetOwnership(ctx, vms, ownerID, groupID)
			inv.Exit(changed, fmt.Sprintf("ownership of %d VM(s) converged", len(vms)))
			return err
		})
	},
}

var vmWaitCmd = &cobra.Command{
	Use:   "wait <id>",
	Short: "Wait for a VM to reach a state",
	Long: `Poll a VM until it reaches one of the target states.

States are VM states (PENDING, POWEROFF, ...) or, while the VM is ACTIVE,
life-cycle states (PROLOG, BOOT, RUNNING, ...). Without --target the VM is
expected to become RUNNING.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 0 {
			return fmt.Errorf("invalid VM ID %q", args[0])
		}

		inv := invocation{request: "vm wait " + args[0]}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			spec, err := vmWaitSpec(inv.Client, id)
			if err != nil {
				return err
			}

			state, err := wait.Wait(ctx, inv.Waiter, spec)
			if err != nil {
				return err
			}
			inv.Exit(false, fmt.Sprintf("VM %d reached %s", id, state))
			return nil
		})
	},
}

func vmWaitSpec(client module.Client, id int) (wait.Spec[string], error) {
	if len(waitTarget) == 0 {
		return vm.RunningSpec(client, id, waitTimeout), nil
	}
	return vm.StatusSpec(client, id, vm.WaitOptions{
		Target:     waitTarget,
		Invalid:    waitInvalid,
		Transition: waitTransition,
		Timeout:    waitTimeout,
	})
}

var vmLabelsCmd = &cobra.Command{
	Use:   "labels <id>",
	Short: "Show the labels and attributes of a VM",
	Long: `Show the labels of a VM, taken from the comma-separated LABELS
attribute of its user template, and its remaining user template attributes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 0 {
			return fmt.Errorf("invalid VM ID %q", args[0])
		}

		inv := invocation{request: "vm labels " + args[0], data: true}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			labels, attrs, err := vm.FetchLabelsAndAttributes(ctx, inv.Client, id)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(map[string]interface{}{
				"labels":     labels,
				"attributes": attrs,
			})
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		})
	},
}

// selectVMs selects VMs by IDs when every argument is an ID, otherwise by
// a single name pattern.
func selectVMs(ctx context.Context, l *locator.Locator, args []string) ([]resource.Handle, error) {
	state := locator.DesiredState(vmDesiredState)
	if state != locator.StatePresent && state != locator.StateAbsent {
		return nil, fmt.Errorf("invalid state %q (valid: present, absent)", vmDesiredState)
	}

	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id < 0 {
			ids = nil
			break
		}
		ids = append(ids, id)
	}
	if ids != nil {
		return l.VMsByIDs(ctx, ids, state)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("expected one name pattern or a list of IDs, got %q", args)
	}
	return l.VMsByName(ctx, args[0], state)
}

// resolveOwner turns a user or group given by ID or name into its ID. An
// empty value means keep the current one.
func resolveOwner(ctx context.Context, l *locator.Locator, kind resource.Kind, value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	if id, err := strconv.Atoi(value); err == nil && id >= 0 {
		return &id, nil
	}

	var (
		id  int
		err error
	)
	if kind == resource.KindUser {
		id, err = l.UserIDByName(ctx, value)
	} else {
		id, err = l.GroupIDByName(ctx, value)
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
