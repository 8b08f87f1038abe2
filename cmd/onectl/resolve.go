package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/onectl/internal/loader"
	"github.com/jbweber/onectl/internal/module"
)

var paramsFile string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve name parameters to IDs",
	Long: `Read a parameter file and print it with name parameters resolved to
their ID counterparts. For example cluster_name: default adds cluster_id
when the cluster exists. Names that do not exist are left unresolved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loader.LoadParamsFromFile(paramsFile)
		if err != nil {
			return err
		}

		inv := invocation{request: "resolve " + paramsFile, params: set, data: true}
		return run(cmd, inv, func(_ context.Context, inv *module.Invocation) error {
			out, err := loader.EncodeParams(inv.Params)
			if err != nil {
				return fmt.Errorf("failed to encode parameters: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		})
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&paramsFile, "file", "f", "", "YAML file with the parameters (required)")
	_ = resolveCmd.MarkFlagRequired("file")
}
