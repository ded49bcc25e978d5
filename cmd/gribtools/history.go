// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gribtools/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the record of tool invocations",
	Long: `History reads the SQLite database in which every conversion command
records its tool invocations (ledger.path, default .gribtools/history.db).`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tool invocations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Close()

	entries, err := l.List(cmd.Context(), historyFilter(cmd))
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return formatHistory(os.Stdout, entries)
}

func formatHistory(w io.Writer, entries []ledger.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-20s  %-14s  %-4s  %-8s  %s\n",
		"ID", "Finished", "Tool", "Exit", "Duration", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		fmt.Fprintf(w, "%-6d  %-20s  %-14s  %-4d  %-8s  %s\n",
			e.ID, e.FinishedAt.Local().Format("2006-01-02 15:04:05"), e.Tool,
			e.ExitCode, e.Duration, e.Output)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(entries))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export recorded invocations to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer l.Close()

	f := historyFilter(cmd)
	switch format {
	case "yaml", "":
		err = l.ExportYAML(cmd.Context(), args[0], f)
	case "json":
		err = l.ExportJSON(cmd.Context(), args[0], f)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", args[0])
	return nil
}

// --- shared helpers ---

func openLedger(cmd *cobra.Command) (*ledger.Ledger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Ledger.Path == "" {
		return nil, fmt.Errorf("history is disabled: set ledger.path")
	}
	return ledger.Open(cfg.Ledger.Path)
}

func historyFilter(cmd *cobra.Command) ledger.Filter {
	tool, _ := cmd.Flags().GetString("tool")
	failed, _ := cmd.Flags().GetBool("failed")
	limit, _ := cmd.Flags().GetInt("limit")
	return ledger.Filter{Tool: tool, FailedOnly: failed, Limit: limit}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("tool", "", "filter by tool name")
	historyCmd.PersistentFlags().Bool("failed", false, "only runs that exited non-zero")

	historyListCmd.Flags().Int("limit", 0, "maximum runs to show (0 = default 50)")
	historyListCmd.Flags().Bool("json", false, "output runs as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().Int("limit", -1, "maximum runs to export (-1 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
