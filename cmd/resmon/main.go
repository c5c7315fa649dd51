package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ppiankov/resmon/internal/app"
	"github.com/ppiankov/resmon/internal/logging"
	"github.com/ppiankov/resmon/pkg/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
)

func main() {
	logging.Init(false)
	if app.IsFirstRun() {
		fmt.Fprint(os.Stderr, app.FirstRunHint)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "resmon",
		Short: "Appliance resource usage reporter",
		Long: `resmon fetches historical resource usage (CPU, memory, disk, sessions,
log rates) from a FortiGate management API and writes a self-contained
HTML report with one chart per resource and timeframe.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewReportCmd())
	root.AddCommand(NewResourcesCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// execute runs the CLI and maps the outcome to an exit code.
func execute(ctx context.Context, args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected error", slog.String("panic", fmt.Sprint(r)))
			code = ExitInternal
		}
	}()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		return classifyError(err)
	}
	return ExitSuccess
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var missing *config.MissingCredentialsError
	if errors.As(err, &missing) {
		return ExitInternal
	}

	if errors.Is(err, fs.ErrNotExist) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "not a directory") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no such file") {
		return ExitNotFound
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "unknown flag") ||
		strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "expected") {
		return ExitInvalidArg
	}

	return ExitInternal
}
