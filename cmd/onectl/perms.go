package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/onectl/internal/module"
	"github.com/jbweber/onectl/internal/one"
	"github.com/jbweber/onectl/internal/resource"
)

// Ownership flags of the top-level chown command
var (
	chownOwner string
	chownGroup string
)

var chmodCmd = &cobra.Command{
	Use:   "chmod <kind> <id|name> <octal>",
	Short: "Set the permissions of a resource",
	Long: `Set the permissions of a single vm, template or datastore to a 3-digit
octal string such as 640. Use "onectl vm chmod" to select VMs in bulk.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ownedKind(args[0])
		if err != nil {
			return err
		}

		inv := invocation{request: fmt.Sprintf("chmod %s %s %s", kind, args[1], args[2])}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			h, err := inv.Locator.RequireArg(ctx, kind, args[1])
			if err != nil {
				return err
			}

			changed, err := inv.Setter.SetPermissions(ctx, []resource.Handle{*h}, args[2])
			inv.Exit(changed, fmt.Sprintf("permissions of %s %s set to %s", kind, h.Name, args[2]))
			return err
		})
	},
}

var chownCmd = &cobra.Command{
	Use:   "chown <kind> <id|name>",
	Short: "Set the owner and group of a resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ownedKind(args[0])
		if err != nil {
			return err
		}

		inv := invocation{request: fmt.Sprintf("chown %s %s", kind, args[1])}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			ownerID, err := resolveOwner(ctx, inv.Locator, resource.KindUser, chownOwner)
			if err != nil {
				return err
			}
			groupID, err := resolveOwner(ctx, inv.Locator, resource.KindGroup, chownGroup)
			if err != nil {
				return err
			}

			h, err := inv.Locator.RequireArg(ctx, kind, args[1])
			if err != nil {
				return err
			}

			changed, err := inv.Setter.SetOwnership(ctx, []resource.Handle{*h}, ownerID, groupID)
			inv.Exit(changed, fmt.Sprintf("ownership of %s %s converged", kind, h.Name))
			return err
		})
	},
}

func init() {
	chownCmd.Flags().StringVar(&chownOwner, "owner", "", "new owner, user name or ID (default: keep)")
	chownCmd.Flags().StringVar(&chownGroup, "group", "", "new group, group name or ID (default: keep)")
}

// ownedKind parses a kind and rejects those without chmod and chown.
func ownedKind(s string) (resource.Kind, error) {
	kind, err := resource.ParseKind(s)
	if err != nil {
		return "", err
	}
	if !one.SupportsOwnership(kind) {
		return "", fmt.Errorf("%s does not support permission or ownership changes", kind)
	}
	return kind, nil
}
