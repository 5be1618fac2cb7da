package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zirconconsole/zircon/internal/presentation"
	"github.com/zirconconsole/zircon/internal/tracing"
)

// errExecFailed marks a failed execution whose error is already in the JSON
// output.
var errExecFailed = errors.New("execution failed")

var execCmd = &cobra.Command{
	Use:   "exec <source>",
	Short: "Run a command without the console",
	Long: `Run Zirconium source once and print the result as JSON.

Console-only commands such as clear and theme fail outside the console.
The exit status is non-zero when execution fails.

Examples:
  zircon exec 'print "hello"'
  zircon exec 'print 1; print 2' | jq -r '.outputs[]'`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging("zircon-exec")
	if err != nil {
		return err
	}
	defer cleanupLog()

	source := strings.Join(args, " ")
	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	provider, err := tracing.NewProvider(cfg.Tracing.Provider())
	if err != nil {
		return fmt.Errorf("creating tracer: %w", err)
	}
	defer shutdownTracing(provider)

	tracer := provider.Tracer()
	ctx, span := tracing.StartExecution(context.Background(), tracer,
		trace.WithAttributes(attribute.String(tracing.AttrSource, source)))
	outputs, execErr := reg.WithMiddleware(tracing.NewHandlerMiddleware(tracer)).Execute(ctx, source)
	span.SetAttributes(attribute.Int(tracing.AttrOutputCount, len(outputs)))
	tracing.RecordResult(span, execErr)
	span.End()

	result := presentation.ResultDTO{
		Source:  source,
		Outputs: outputs,
		TraceID: tracing.TraceIDFromContext(ctx),
	}
	if result.Outputs == nil {
		result.Outputs = []string{}
	}
	if execErr != nil {
		result.Error = execErr.Error()
	}
	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatResult(result); err != nil {
		return err
	}
	if execErr != nil {
		return errExecFailed
	}
	return nil
}

func init() {
	rootCmd.AddCommand(execCmd)
}
