package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"bennypowers.dev/gqlint/internal/log"
	"github.com/spf13/cobra"
)

// Exit statuses
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitUnavailable = 2
)

// exitError carries a process exit status out of a command
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "gqlint",
		Short:         "Lint GraphQL in tagged template literals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetOutput(cmd.ErrOrStderr())
			if logLevel == "" {
				return nil
			}
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newCheckCmd(),
		newLSPCmd(),
		newVersionCmd(),
	)
	return cmd
}

// execute runs the CLI and returns the process exit status.
// Anything that is not a subcommand runs check.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(withDefaultCommand(root, args))

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	_, _ = fmt.Fprintf(stderr, "gqlint: %v\n", err)
	return exitUnavailable
}

func withDefaultCommand(root *cobra.Command, args []string) []string {
	if len(args) > 0 {
		if slices.Contains([]string{"help", "-h", "--help", "completion"}, args[0]) {
			return args
		}
		if cmd, _, err := root.Find(args); err == nil && cmd != root {
			return args
		}
	}
	return append([]string{"check"}, args...)
}
