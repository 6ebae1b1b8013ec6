package main

import (
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := lsp.NewServer()
			if err != nil {
				return err
			}
			defer func() { _ = server.Close() }()

			if err := server.RunStdio(); err != nil {
				log.Error("Server error: %v", err)
				return err
			}
			return nil
		},
	}
}
