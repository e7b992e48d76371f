package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/tablefile"
)

var (
	exportDir  string
	exportTeam string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export [run-prefix]",
	Short: "Export a stored run as table files or a team JSON document",
	Long: `Writes the tables of a stored run as CSV table files, the same layout the
run command reuses between invocations. With --team, writes one team's profile,
matches and player contributions as JSON instead.

Examples:
  socmetrics export --dir ./tables/euro-2022
  socmetrics export 3f9a --team England --out england.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "directory for the CSV table files")
	exportCmd.Flags().StringVar(&exportTeam, "team", "", "export this team as JSON instead of table files")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "JSON output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportTeam == "" && exportDir == "" {
		return fmt.Errorf("set --dir for table files or --team for a team document")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	run, res, err := loadRun(db, prefix)
	if err != nil {
		return err
	}

	if exportTeam == "" {
		if err := tablefile.Write(exportDir, res); err != nil {
			return fmt.Errorf("write table files: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote run %s to %s\n", run.RunKey[:12], exportDir)
		return nil
	}

	doc, err := buildTeamDoc(db, run, res, exportTeam)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	b = append(b, '\n')
	if exportOut == "" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(exportOut, b, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", exportOut)
	return nil
}
