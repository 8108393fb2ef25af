package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/model"
)

var codesCmd = &cobra.Command{
	Use:   "codes [table]",
	Short: "List FatturaPA code tables",
	Long: `List the code tables used in FatturaPA documents.

Tables:
  - document_types      TipoDocumento (TD01..TD27)
  - nature_codes        Natura of VAT-exempt amounts (N1..N7)
  - payment_conditions  CondizioniPagamento (TP01..TP03)
  - payment_methods     ModalitaPagamento (MP01..MP23)

Examples:
  fatturapa-exporter codes
  fatturapa-exporter codes nature_codes --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)
}

func runCodes(cmd *cobra.Command, args []string) error {
	tables := model.CodeTables()

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	slices.Sort(names)

	if len(args) == 1 {
		if _, ok := tables[args[0]]; !ok {
			return fmt.Errorf("unknown code table %q (available: %v)", args[0], names)
		}
		names = args
	}

	if jsonOutput {
		selected := make(map[string][]model.CodeEntry, len(names))
		for _, name := range names {
			selected[name] = tables[name]
		}
		return printJSON(selected)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\n", name)
		for _, e := range tables[name] {
			fmt.Fprintf(tw, "  %s\t%s\n", e.Code, e.Description)
		}
	}
	return tw.Flush()
}
