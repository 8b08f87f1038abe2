package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/onectl/internal/module"
	"github.com/jbweber/onectl/internal/resource"
)

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test the OpenNebula connection",
	Long:  `Test connectivity to the OpenNebula endpoint and display its version.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, invocation{request: "test-conn"}, func(ctx context.Context, inv *module.Invocation) error {
			v, err := inv.Client.Ping(ctx)
			if err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}
			inv.Exit(false, "OpenNebula version "+v)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List a resource pool",
	Long: `List every resource of a kind: vm, host, cluster, template, datastore,
user or group.

Output formats:
  -o table  Human-readable table (default)
  -o yaml   YAML stream, one document per resource
  -o json   JSON array`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := resource.ParseKind(args[0])
		if err != nil {
			return err
		}

		inv := invocation{request: "list " + string(kind), data: true}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			handles, err := inv.Client.Pool(ctx, kind)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind.Plural(), err)
			}
			return printHandles(cmd, handles)
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <kind> <id|name>",
	Short: "Get a single resource",
	Long: `Get a single resource by ID or name. Arguments that parse as a
non-negative integer are IDs. A name matching more than one resource is an
error.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := resource.ParseKind(args[0])
		if err != nil {
			return err
		}

		inv := invocation{request: "get " + string(kind) + " " + args[1], data: true}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			h, err := inv.Locator.RequireArg(ctx, kind, args[1])
			if err != nil {
				return err
			}
			return printHandles(cmd, []resource.Handle{*h})
		})
	},
}

// printHandles writes resources in the selected output format.
func printHandles(cmd *cobra.Command, handles []resource.Handle) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	text, err := formatter.FormatHandleList(handles)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
