package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pable/go-soccer-metrics/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SOCMETRICS_CONFIG",
	"SOCMETRICS_COMPETITION_NAME",
	"SOCMETRICS_SEASON_NAME",
	"SOCMETRICS_GOAL_KICK_TOLERANCE",
	"SOCMETRICS_HTTP_TIMEOUT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "socmetrics.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CompetitionName, convey.ShouldEqual, "UEFA Women's Euro")
				convey.So(cfg.SeasonName, convey.ShouldEqual, "2022")
				convey.So(cfg.GoalKickTolerance, convey.ShouldEqual, 15)
				convey.So(cfg.HTTPTimeout, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfigFile(t, `
competition_name: "FA Women's Super League"
season_name: "2020/2021"
date_of_analysis: "2021-01-01"
goal_kick_tolerance: 10
http_timeout: 5s
`)
			cfg, err := config.Load(path)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CompetitionName, convey.ShouldEqual, "FA Women's Super League")
				convey.So(cfg.SeasonName, convey.ShouldEqual, "2020/2021")
				convey.So(cfg.DateOfAnalysis, convey.ShouldEqual, "2021-01-01")
				convey.So(cfg.GoalKickTolerance, convey.ShouldEqual, 10)
				convey.So(cfg.HTTPTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.APIAddr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When the file path comes from SOCMETRICS_CONFIG and env overrides it", func() {
			path := writeConfigFile(t, "season_name: \"2019\"\ngoal_kick_tolerance: 10\n")
			_ = os.Setenv("SOCMETRICS_CONFIG", path)
			_ = os.Setenv("SOCMETRICS_GOAL_KICK_TOLERANCE", "20")

			cfg, err := config.Load("")

			convey.Convey("Then env has the highest precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SeasonName, convey.ShouldEqual, "2019")
				convey.So(cfg.GoalKickTolerance, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("An unparseable analysis date is rejected", func() {
			cfg.DateOfAnalysis = "01.08.2022"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("A non-positive tolerance is rejected", func() {
			cfg.GoalKickTolerance = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("The table directory is derived from the selection", func() {
			cfg.TableDir = "/tmp/t"
			convey.So(cfg.TableDirFor(), convey.ShouldEqual, "/tmp/t/uefa-women-s-euro/2022/2022-08-01/tol-15")
		})

		convey.Convey("The table directory changes with the tolerance", func() {
			before := cfg.TableDirFor()
			cfg.GoalKickTolerance = 5
			convey.So(cfg.TableDirFor(), convey.ShouldNotEqual, before)
			convey.So(cfg.TableDirFor(), convey.ShouldEndWith, "tol-5")
		})
	})
}
