package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/version"
	"bennypowers.dev/lupls/lsp"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the exit code. Findings from
// check have already been printed, so only other errors are reported.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errFindings) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "lupos-language-server",
		Short:         "Language server for lupos html, css and svg templates",
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := log.ParseLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			log.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	// vscode-languageclient passes --stdio to servers it spawns
	root.Flags().Bool("stdio", true, "serve over stdin and stdout")

	root.AddCommand(newCheckCommand())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.GetFullVersion())
		},
	})
	return root
}

func serve() error {
	server, err := lsp.NewServer()
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		return err
	}
	defer server.Close()

	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		return err
	}
	return nil
}
