package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gaborage/go-bricks-actionlog/app"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
)

// ActionsOptions holds options for the actions command
type ActionsOptions struct {
	JSON bool
}

// actionRow is one logged method as listed by the actions command.
type actionRow struct {
	Type      string   `json:"type"`
	Method    string   `json:"method"`
	Action    string   `json:"action"`
	Level     string   `json:"level"`
	Nestable  bool     `json:"nestable,omitempty"`
	Sensitive []string `json:"sensitive,omitempty"`
}

// NewActionsCommand creates the actions command
func NewActionsCommand(global *GlobalOptions) *cobra.Command {
	opts := &ActionsOptions{}

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the actions of the sample services",
		Long:  "Lists every logged method of the registered sample services with the action name it is logged under",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := bootstrap(global, nil)
			if err != nil {
				return err
			}
			defer shutdownApp(a)
			return printActions(cmd.OutOrStdout(), collectActions(a), opts.JSON)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print as JSON")

	return cmd
}

func collectActions(a *app.App) []actionRow {
	var rows []actionRow
	for _, t := range a.Registry().Types() {
		if !interceptor.IsEligible(t) {
			continue
		}
		for _, m := range t.Methods {
			d, ok := m.Effective()
			if !ok || !m.Eligible() {
				continue
			}
			row := actionRow{
				Type:     t.Name,
				Method:   m.Name,
				Action:   a.ActionName(m),
				Level:    d.Level.String(),
				Nestable: d.Nestable,
			}
			for _, p := range m.Params {
				if p.IsSensitive() {
					row.Sensitive = append(row.Sensitive, p.Name)
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func printActions(out io.Writer, rows []actionRow, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tMETHOD\tACTION\tLEVEL\tNESTABLE\tSENSITIVE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", r.Type, r.Method, r.Action, r.Level, r.Nestable, strings.Join(r.Sensitive, ","))
	}
	return w.Flush()
}
