package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/kpi"
	"github.com/pable/go-soccer-metrics/internal/model"
	"github.com/pable/go-soccer-metrics/internal/report"
	"github.com/pable/go-soccer-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession is the state of one REPL: the store and the selected run.
type shellSession struct {
	db   *storage.DB
	out  io.Writer
	errw io.Writer
	run  *model.RunSummary
	res  *model.Results
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{db: db, out: os.Stdout, errw: os.Stderr}
	cGreeting.Println("socmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	if err := s.use(""); err != nil {
		cWarn.Fprintln(os.Stderr, err)
	}
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("socmetrics")
		if s.run != nil {
			cMuted.Printf("[%s]", s.run.RunKey[:8])
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		if quit := s.exec(scanner.Text()); quit {
			return nil
		}
	}
	return nil
}

// exec runs one input line and reports whether the session should end.
func (s *shellSession) exec(line string) bool {
	tokens := splitArgs(line)
	if len(tokens) == 0 {
		return false
	}
	cmd, args := tokens[0], tokens[1:]

	var err error
	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		s.help()
	case "list":
		err = s.list()
	case "use":
		if len(args) != 1 {
			err = fmt.Errorf("usage: use <run-prefix>")
			break
		}
		err = s.use(args[0])
	case "show":
		err = s.withRun(func() error {
			printRun(s.out, s.db, s.run, s.res, optArg(args, 0))
			return nil
		})
	case "teams":
		err = s.withRun(func() error {
			fmt.Fprintln(s.out, strings.Join(kpi.Teams(s.res.Events), "\n"))
			return nil
		})
	case "profile":
		if len(args) != 1 {
			err = fmt.Errorf("usage: profile <team>")
			break
		}
		err = s.withRun(func() error { return printProfile(s.out, s.db, s.run, s.res, args[0]) })
	case "opponents":
		if len(args) != 1 {
			err = fmt.Errorf("usage: opponents <team>")
			break
		}
		err = s.withRun(func() error {
			fmt.Fprintln(s.out, strings.Join(kpi.Opponents(s.res.Events, args[0]), "\n"))
			return nil
		})
	case "passes":
		if len(args) < 1 || len(args) > 3 {
			err = fmt.Errorf("usage: passes <team> [opponent|all] [player|all]")
			break
		}
		err = s.withRun(func() error {
			return printPasses(s.out, s.res, args[0], optArg(args, 1), optArg(args, 2))
		})
	default:
		cWarn.Fprintf(s.errw, "unknown command %q, type 'help'\n", cmd)
	}
	if err != nil {
		cError.Fprintf(s.errw, "error: %v\n", err)
	}
	return false
}

func (s *shellSession) help() {
	fmt.Fprintln(s.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored runs"},
		{"use <run-prefix>", "select a run (default: newest)"},
		{"show [team]", "show the KPI tables of the selected run"},
		{"teams", "list the teams of the selected run"},
		{"profile <team>", "rate a team against the tournament average"},
		{"opponents <team>", "list the opponents a team faced"},
		{"passes <team> [opponent] [player]", "list a team's passes by outcome"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(s.out, "  ")
		cCmd.Fprintf(s.out, "%-38s", r.cmd)
		fmt.Fprintln(s.out, r.desc)
	}
	fmt.Fprintln(s.out, "\nQuote names with spaces: profile \"Germany Women's\"")
	fmt.Fprintln(s.out)
}

func (s *shellSession) list() error {
	runs, err := s.db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cMuted.Fprintln(s.out, "No runs stored yet.")
		return nil
	}
	report.PrintRunList(s.out, runs)
	return nil
}

func (s *shellSession) use(prefix string) error {
	run, res, err := loadRun(s.db, prefix)
	if err != nil {
		return err
	}
	s.run, s.res = run, res
	cHeader.Fprintf(s.out, "using run %s: %s %s before %s\n", run.RunKey[:12], run.Competition, run.Season, run.Cutoff)
	return nil
}

func (s *shellSession) withRun(fn func() error) error {
	if s.run == nil {
		return fmt.Errorf("no run selected, 'use <run-prefix>' first")
	}
	return fn()
}

func optArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// splitArgs splits a line on whitespace, keeping double-quoted runs together.
func splitArgs(line string) []string {
	var out []string
	var cur strings.Builder
	inQuote, started := false, false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		out = append(out, cur.String())
	}
	return out
}
