package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/report"
	"bennypowers.dev/gqlint/internal/schema"
	"bennypowers.dev/gqlint/internal/workspace"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	configPath string
	env        string
	tag        string
	schema     []string
	format     string
	watch      bool
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Lint files and report diagnostics (the default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			code, err := runCheck(ctx, cmd, opts, args)
			if err != nil {
				log.Error("%v", err)
			}
			if code != exitOK {
				return &exitError{code: code}
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.configPath, "config", "c", "", "config file (default: .graphqlrc or package.json in the current directory)")
	fs.StringVar(&opts.env, "env", "", "environment: default, apollo, lokka, relay or none")
	fs.StringVar(&opts.tag, "tag", "", "template tag name, e.g. graphql or Relay.QL")
	fs.StringArrayVar(&opts.schema, "schema", nil, "schema SDL file, glob or URL (repeatable)")
	fs.StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "re-lint files as they change")
	return cmd
}

// runCheck returns the exit status alongside any error that decided it
func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions, args []string) (int, error) {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return exitUnavailable, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return exitUnavailable, err
	}

	root := cwd
	if opts.configPath != "" {
		root = ""
	}
	cfg, err := config.Load(root, opts.configPath, config.File{
		Env:      opts.env,
		TagName:  opts.tag,
		Schema:   config.StringList(opts.schema),
		LogLevel: logLevelFlag(cmd),
	})
	if err != nil {
		return exitUnavailable, err
	}
	log.SetLevel(cfg.LogLevel)

	status := exitOK
	loadCtx, cancel := context.WithTimeout(ctx, schema.DefaultFetchTimeout)
	sch, err := schema.Load(loadCtx, cfg.Root, cfg.Schema)
	cancel()
	if err != nil {
		log.Warn("Schema unavailable, checking syntax only: %v", err)
		status = exitUnavailable
	}
	linter := lint.New(cfg, sch)

	files, err := workspace.Discover(cfg.Root, cfg.Documents, absPaths(cwd, args))
	if err != nil {
		return exitUnavailable, err
	}
	log.Debug("Checking %d file(s) with env=%s tag=%s", len(files), cfg.Env, cfg.Tag)

	out := cmd.OutOrStdout()
	reporter := report.New(format, out, useColor(out))

	diags, lintErr := workspace.LintFiles(ctx, linter, cfg.Root, files)
	if err := reporter.Report(diags); err != nil {
		return exitUnavailable, err
	}

	if opts.watch {
		return exitOK, watch(ctx, cfg, linter, reporter)
	}

	switch {
	case lintErr != nil:
		return exitUnavailable, lintErr
	case status != exitOK:
		return status, nil
	case len(diags) > 0:
		return exitDiagnostics, nil
	}
	return exitOK, nil
}

// watch re-lints changed documents until ctx is cancelled
func watch(ctx context.Context, cfg *config.Config, linter *lint.Linter, reporter report.Reporter) error {
	return workspace.Watch(ctx, cfg.Root, cfg.Documents, workspace.DefaultDebounce, func(changed []string) {
		var existing []string
		for _, file := range changed {
			if _, err := os.Stat(file); err == nil {
				existing = append(existing, file)
			}
		}
		if len(existing) == 0 {
			return
		}

		diags, err := workspace.LintFiles(ctx, linter, cfg.Root, existing)
		if err != nil {
			log.Error("%v", err)
		}
		if err := reporter.Report(diags); err != nil {
			log.Error("Failed to write report: %v", err)
		}
	})
}

// logLevelFlag returns the persistent --log-level value so it overrides the config file
func logLevelFlag(cmd *cobra.Command) string {
	flag := cmd.Flags().Lookup("log-level")
	if flag == nil || !flag.Changed {
		return ""
	}
	return flag.Value.String()
}

func absPaths(cwd string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		out = append(out, p)
	}
	return out
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.UseColor(f)
}
