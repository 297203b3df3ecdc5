package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/fastplan/internal/standards"
)

var (
	standardsGrade      string
	standardsSubject    string
	standardsJSONOutput bool
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Look up curriculum standards from the local catalog",
	Long:  "Query the embedded standards catalog by grade and subject without running the server.",
	Args:  cobra.NoArgs,
	RunE:  runStandards,
}

func init() {
	standardsCmd.Flags().StringVar(&standardsGrade, "grade", "",
		"Grade level (e.g. \"5th Grade\", \"K\", \"9-12\")")
	standardsCmd.Flags().StringVar(&standardsSubject, "subject", "",
		"Subject area (e.g. \"Mathematics\", \"ELA\", \"Science\")")
	standardsCmd.Flags().BoolVar(&standardsJSONOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(standardsCmd)
}

func runStandards(cmd *cobra.Command, args []string) error {
	if standardsGrade == "" || standardsSubject == "" {
		return fmt.Errorf("--grade and --subject are required")
	}

	categories := standards.LocalLookup(standardsGrade, standardsSubject)

	if standardsJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"grade":      standards.NormalizeGrade(standardsGrade),
			"subject":    string(standards.NormalizeSubject(standardsSubject)),
			"categories": categories,
		})
	}

	if len(categories) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No standards found in the local catalog for that grade and subject.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "DOMAIN\tCODE\tDESCRIPTION")
	for _, cat := range categories {
		for _, std := range cat.Standards {
			fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Domain, std.Code, std.Description)
		}
	}
	w.Flush()

	return nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
