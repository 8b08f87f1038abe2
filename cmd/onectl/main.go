package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jbweber/onectl/internal/config"
	"github.com/jbweber/onectl/internal/logging"
	"github.com/jbweber/onectl/internal/module"
	"github.com/jbweber/onectl/internal/output"
	"github.com/jbweber/onectl/internal/params"
	"github.com/jbweber/onectl/internal/vm"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	configFile   string
	outputFormat string
	noHeaders    bool
	checkMode    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "onectl",
	Short: "onectl - OpenNebula resource helper",
	Long: `onectl resolves OpenNebula resources by name or ID, diffs templates,
converges permissions and ownership, and waits for state transitions.

Connection settings come from flags, the ONE_URL, ONE_USERNAME and
ONE_PASSWORD environment variables, or an onectl.yaml file.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./onectl.yaml or /etc/onectl/onectl.yaml)")
	flags.String("api-url", "", "OpenNebula XML-RPC endpoint (env ONE_URL)")
	flags.String("api-username", "", "OpenNebula user (env ONE_USERNAME)")
	flags.String("api-password", "", "OpenNebula password or token (env ONE_PASSWORD)")
	flags.Bool("validate-certs", true, "validate TLS certificates of the endpoint")
	flags.Duration("wait-timeout", 0, "default timeout of state waits (default 5m0s)")
	flags.Duration("retry-interval", 0, "delay between polls (default 1s)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")
	flags.String("log-format", "", "log format: console or json (default console)")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format: table, yaml, json")
	flags.BoolVar(&noHeaders, "no-headers", false, "omit table headers")
	flags.BoolVar(&checkMode, "check", false, "report changes without applying them")

	rootCmd.AddCommand(testConnCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(chmodCmd)
	rootCmd.AddCommand(chownCmd)
	rootCmd.AddCommand(vmCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(resolveCmd)
}

// invocation describes how a command runs inside the module driver.
type invocation struct {
	request string
	params  params.Set
	// data commands print their own output and report only failures
	data bool
}

// newFormatter creates the formatter selected with -o.
func newFormatter() (output.Formatter, error) {
	if err := output.ValidateFormat(outputFormat); err != nil {
		return nil, err
	}
	return output.NewFormatter(output.Options{
		Format:    output.Format(outputFormat),
		NoHeaders: noHeaders,
		StateName: vm.StateName,
	})
}

// run loads the configuration and runs fn inside the module driver.
func run(cmd *cobra.Command, inv invocation, fn module.Func) error {
	cfg, err := config.Load(config.Options{File: configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	_, err = module.Run(cmd.Context(), module.Options{
		Config:            cfg,
		Params:            inv.params,
		CheckMode:         checkMode,
		Request:           inv.request,
		Log:               log,
		Formatter:         formatter,
		Out:               cmd.OutOrStdout(),
		SkipSuccessReport: inv.data,
	}, fn)
	return err
}
