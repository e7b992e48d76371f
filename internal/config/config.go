// Package config holds the tournament selection and runtime settings of socmetrics.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the merged configuration of one invocation.
type Config struct {
	CompetitionName   string        `koanf:"competition_name"`
	SeasonName        string        `koanf:"season_name"`
	DateOfAnalysis    string        `koanf:"date_of_analysis"` // matches strictly before this date, YYYY-MM-DD
	OpenDataPath      string        `koanf:"open_data_path"`   // prefix of the 360 files, <prefix><match id>.json
	GoalKickTolerance int           `koanf:"goal_kick_tolerance"`
	BaseURL           string        `koanf:"base_url"`
	HTTPTimeout       time.Duration `koanf:"http_timeout"`
	TableDir          string        `koanf:"table_dir"`
	DBPath            string        `koanf:"db_path"`
	LogLevel          string        `koanf:"log_level"`
	APIAddr           string        `koanf:"api_addr"`
	MetricsFile       string        `koanf:"metrics_file"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		CompetitionName:   "UEFA Women's Euro",
		SeasonName:        "2022",
		DateOfAnalysis:    "2022-08-01",
		OpenDataPath:      "data/three-sixty/",
		GoalKickTolerance: 15,
		BaseURL:           "https://raw.githubusercontent.com/statsbomb/open-data/master/data",
		HTTPTimeout:       30 * time.Second,
		TableDir:          filepath.Join(dataDir(), "tables"),
		DBPath:            filepath.Join(dataDir(), "metrics.db"),
		LogLevel:          "info",
		APIAddr:           ":8080",
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".socmetrics"
	}
	return filepath.Join(home, ".socmetrics")
}

// Validate checks the fields every pipeline run depends on.
func (c *Config) Validate() error {
	switch {
	case c.CompetitionName == "":
		return fmt.Errorf("%w: competition_name must not be empty", ErrInvalidConfig)
	case c.SeasonName == "":
		return fmt.Errorf("%w: season_name must not be empty", ErrInvalidConfig)
	case c.GoalKickTolerance <= 0:
		return fmt.Errorf("%w: goal_kick_tolerance must be positive", ErrInvalidConfig)
	case c.TableDir == "":
		return fmt.Errorf("%w: table_dir must not be empty", ErrInvalidConfig)
	}
	if _, err := time.Parse(time.DateOnly, c.DateOfAnalysis); err != nil {
		return fmt.Errorf("%w: date_of_analysis %q: %v", ErrInvalidConfig, c.DateOfAnalysis, err)
	}
	return nil
}

// TableDirFor returns the table-file directory of one tournament selection
// and goal-kick tolerance.
func (c *Config) TableDirFor() string {
	return filepath.Join(c.TableDir, slug(c.CompetitionName), slug(c.SeasonName), c.DateOfAnalysis,
		fmt.Sprintf("tol-%d", c.GoalKickTolerance))
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		default:
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
