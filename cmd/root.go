package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/config"
	"github.com/pable/go-soccer-metrics/internal/logging"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// Tournament selection overrides; applied only when set on the command line.
	flagCompetition string
	flagSeason      string
	flagCutoff      string
	flagTolerance   int
	flagOpenData    string
	flagTables      string
)

// cfg and logger are populated by the root pre-run hook.
var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "socmetrics",
	Short: "Soccer opponent-analysis metrics tool",
	Long: `Load StatsBomb open data for one tournament, compute team and player KPIs
(goal-kick restarts, center-back positioning, xG, assisted xG, passed opponents)
and explore them from the terminal, a SQLite store or an HTTP API.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".socmetrics", "metrics.db")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	pf.StringVar(&configPath, "config", "", "YAML config file (falls back to $"+config.EnvPrefix+"CONFIG)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	pf.StringVar(&flagCompetition, "competition", "", "competition name, e.g. \"UEFA Women's Euro\"")
	pf.StringVar(&flagSeason, "season", "", "season name, e.g. 2022")
	pf.StringVar(&flagCutoff, "cutoff", "", "only matches strictly before this date (YYYY-MM-DD)")
	pf.IntVar(&flagTolerance, "tolerance", 0, "seconds after an opponent goal kick that count as a restart")
	pf.StringVar(&flagOpenData, "open-data", "", "path prefix of the local 360 files")
	pf.StringVar(&flagTables, "tables", "", "root directory of the table files")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(passesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig merges defaults, .env, config file and environment, then applies
// the flags the user set explicitly.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("competition") {
		c.CompetitionName = flagCompetition
	}
	if flags.Changed("season") {
		c.SeasonName = flagSeason
	}
	if flags.Changed("cutoff") {
		c.DateOfAnalysis = flagCutoff
	}
	if flags.Changed("tolerance") {
		c.GoalKickTolerance = flagTolerance
	}
	if flags.Changed("open-data") {
		c.OpenDataPath = flagOpenData
	}
	if flags.Changed("tables") {
		c.TableDir = flagTables
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("db") {
		c.DBPath = dbPath
	} else {
		dbPath = c.DBPath
	}

	log, err := logging.New(c.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	cfg, logger = c, log
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
