package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/onectl/internal/loader"
	"github.com/jbweber/onectl/internal/module"
	"github.com/jbweber/onectl/internal/resource"
	"github.com/jbweber/onectl/internal/template"
)

var templateFile string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect VM templates",
}

func init() {
	templateCmd.AddCommand(templateNeedsUpdateCmd)
	templateNeedsUpdateCmd.Flags().StringVarP(&templateFile, "file", "f", "", "YAML file with the desired template (required)")
	_ = templateNeedsUpdateCmd.MarkFlagRequired("file")
}

var templateNeedsUpdateCmd = &cobra.Command{
	Use:   "needs-update <id|name>",
	Short: "Compare a template with a desired one",
	Long: `Compare the template of an OpenNebula VM template with the desired
template read from a YAML file. Lists are compared as comma-separated
strings and values as strings, so "2" and 2 are equal.

The result is changed when the template differs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desired, err := loader.LoadTemplateFromFile(templateFile)
		if err != nil {
			return err
		}

		inv := invocation{request: "template needs-update " + args[0]}
		return run(cmd, inv, func(ctx context.Context, inv *module.Invocation) error {
			h, err := inv.Locator.RequireArg(ctx, resource.KindTemplate, args[0])
			if err != nil {
				return err
			}

			if template.NeedsUpdate(h.Template, desired) {
				inv.Exit(true, fmt.Sprintf("template %s differs from %s", h.Name, templateFile))
				return nil
			}
			inv.Exit(false, fmt.Sprintf("template %s is up to date", h.Name))
			return nil
		})
	},
}
