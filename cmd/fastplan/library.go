package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/fastplan/internal/library"
)

var (
	libraryDBPath     string
	libraryJSONOutput bool
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the saved lesson library",
	Long:  "List saved lessons directly from the database without running the server.",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved lessons",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

func init() {
	libraryCmd.PersistentFlags().StringVar(&libraryDBPath, "db", "",
		"Database path (overrides FASTPLAN_DB_PATH)")
	libraryCmd.PersistentFlags().BoolVar(&libraryJSONOutput, "json", false,
		"Output in JSON format")

	libraryCmd.AddCommand(libraryListCmd)
	rootCmd.AddCommand(libraryCmd)
}

// resolveDBPath applies the --db override, then FASTPLAN_DB_PATH, then
// the server's default database location.
func resolveDBPath() string {
	if libraryDBPath != "" {
		return libraryDBPath
	}
	if v := os.Getenv("FASTPLAN_DB_PATH"); v != "" {
		return v
	}
	return "data/fastplan.db"
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	lib, err := library.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer lib.Close()

	lessons, err := lib.List(ctx)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	if libraryJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"lessons": lessons,
			"total":   len(lessons),
		})
	}

	if len(lessons) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved lessons found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tGRADE\tSUBJECT\tSAVED")
	for _, l := range lessons {
		grade := l.Plan.Meta.Grade
		if grade == "" {
			grade = "-"
		}
		subject := l.Plan.Meta.Subject
		if subject == "" {
			subject = "-"
		}
		saved := time.UnixMilli(l.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Name, grade, subject, saved)
	}
	w.Flush()

	return nil
}
