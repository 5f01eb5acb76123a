package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/internal/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errFindings makes check exit non-zero without printing another message.
var errFindings = errors.New("template problems found")

type checkCommand struct {
	fs     afero.Fs
	format string
}

// finding is one diagnostic in check output, with 1-based positions.
type finding struct {
	File     string `json:"file"`
	Line     uint32 `json:"line"`
	Column   uint32 `json:"column"`
	Code     int    `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func newCheckCommand() *cobra.Command {
	me := &checkCommand{fs: afero.NewOsFs()}
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Report template diagnostics for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return me.run(cmd.OutOrStdout(), cmd.ErrOrStderr(), dir)
		},
	}
	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text or json")
	return cmd
}

// run prints the findings of the project at dir to out. Problems that still
// leave a usable workspace go to errOut, so out stays machine readable.
func (me *checkCommand) run(out, errOut io.Writer, dir string) error {
	if me.format != "text" && me.format != "json" {
		return fmt.Errorf("unknown format %q", me.format)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	ws, err := workspace.Open(me.fs, filepath.ToSlash(root))
	if ws == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}

	results, err := ws.Check()
	if err != nil {
		return err
	}
	findings := collect(ws, results)
	if err := me.print(out, root, findings); err != nil {
		return err
	}
	if len(findings) > 0 {
		return errFindings
	}
	return nil
}

func collect(ws *workspace.Workspace, results []workspace.FileDiagnostics) []finding {
	findings := []finding{}
	for _, r := range results {
		f := ws.Context.Program.File(r.Path)
		if f == nil {
			continue
		}
		ix := f.Index()
		for _, d := range r.Diagnostics {
			pos := ix.Position(d.Span.Start)
			findings = append(findings, finding{
				File:     r.Path,
				Line:     pos.Line + 1,
				Column:   pos.Character + 1,
				Code:     int(d.Code),
				Severity: severityName(d.Severity),
				Message:  d.Message,
			})
		}
	}
	return findings
}

func (me *checkCommand) print(out io.Writer, root string, findings []finding) error {
	if me.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(findings)
	}
	for _, f := range findings {
		name := f.File
		if rel, err := filepath.Rel(root, f.File); err == nil {
			name = rel
		}
		fmt.Fprintf(out, "%s:%d:%d: %s: %s (%d)\n", name, f.Line, f.Column, f.Severity, f.Message, f.Code)
	}
	return nil
}

func severityName(s service.Severity) string {
	if s == service.SeverityWarning {
		return "warning"
	}
	return "error"
}
