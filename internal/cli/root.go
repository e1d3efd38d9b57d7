// Package cli implements the cabinet command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cabinet/pkg/constraints"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// DefaultBucket is the bucket used when --bucket is not given.
const DefaultBucket = "root"

// exitError carries the exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// userErrors are failures caused by the command line rather than the system.
var userErrors = []error{
	types.ErrInvalidKey,
	types.ErrNotFound,
	types.ErrKeyConflict,
	types.ErrNameReserved,
	types.ErrCyclicContainment,
	types.ErrInvalidItemType,
	types.ErrInvalidContainerType,
	types.ErrOrderMismatch,
	types.ErrInvalidBucket,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrReservedName,
	types.ErrLogLevelUnknown,
	constraints.ErrInvalid,
}

// classify wraps err with the exit code it deserves.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return userError(err)
		}
	}
	return sysError(err)
}

// exitCode returns the process exit code for err.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	bucket    string
	jsonMode  bool
	verbose   bool
}

// NewRootCmd creates the top-level "cabinet" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cabinet",
		Short: "An ordered, hierarchical container store",
		Long: "Cabinet stores named items in ordered containers (buckets), keeping\n" +
			"each item's location and presentation order consistent.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip configuration for the version command.
			if cmd.Name() == "version" {
				return nil
			}
			return classify(a.setup(cmd))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $CABINET_CONFIG_DIR or the platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: config data_dir, $CABINET_DATA_DIR or $(CWD)/.cabinet-db)")
	pf.StringVar(&a.flags.bucket, "bucket", DefaultBucket, "bucket to operate on")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newSetCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newOrderCmd(a),
		newChooseNameCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newBucketsCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "cabinet:", err)
	}
	return exitCode(err)
}

// newLogger returns a text logger on w. verbose forces debug output;
// otherwise level comes from the configuration and defaults to warn.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelWarn
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
