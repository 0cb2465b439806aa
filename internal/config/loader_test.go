package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scopeworks/estimator/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()

	Convey("Given no configuration sources", t, func() {
		cfg, err := config.Load(ctx)
		So(err, ShouldBeNil)

		Convey("Then the defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.DataDir, ShouldEqual, "data/catalogs")
			So(cfg.HoursPerDay, ShouldEqual, 8)
			So(cfg.MaxSelections, ShouldEqual, 100)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.MetricsIntervalSeconds, ShouldEqual, 10)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	ctx := context.Background()

	t.Setenv("ESTIMATOR_ADDR", ":7070")
	t.Setenv("ESTIMATOR_DATA_DIR", "/tmp/catalogs")
	t.Setenv("ESTIMATOR_HOURS_PER_DAY", "6")
	t.Setenv("ESTIMATOR_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(ctx)
		So(err, ShouldBeNil)

		Convey("Then env values win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.DataDir, ShouldEqual, "/tmp/catalogs")
			So(cfg.HoursPerDay, ShouldEqual, 6)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
		Convey("Then untouched fields keep their defaults", func() {
			So(cfg.MaxSelections, ShouldEqual, 100)
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "addr: \":6060\"\nmax_selections: 25\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ESTIMATOR_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(ctx)
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":6060")
		So(cfg.MaxSelections, ShouldEqual, 25)

		Convey("Then fields the file omits keep their defaults", func() {
			So(cfg.DataDir, ShouldEqual, "data/catalogs")
		})
	})
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ESTIMATOR_CONFIG", path)
	t.Setenv("ESTIMATOR_ADDR", ":5050")

	Convey("Given both a file and an env override for the same key", t, func() {
		cfg, err := config.Load(ctx)
		So(err, ShouldBeNil)
		So(cfg.Addr, ShouldEqual, ":5050")
	})
}

func TestLoadMissingConfigFile(t *testing.T) {
	ctx := context.Background()
	t.Setenv("ESTIMATOR_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	Convey("Given a config path pointing at a missing file", t, func() {
		_, err := config.Load(ctx)
		So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
	})
}

func TestLoadInvalidHoursPerDay(t *testing.T) {
	ctx := context.Background()
	t.Setenv("ESTIMATOR_HOURS_PER_DAY", "0")

	Convey("Given a non-positive hours per day", t, func() {
		_, err := config.Load(ctx)
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestLoadInvalidMaxSelections(t *testing.T) {
	ctx := context.Background()
	t.Setenv("ESTIMATOR_MAX_SELECTIONS", "-1")

	Convey("Given a non-positive selection cap", t, func() {
		_, err := config.Load(ctx)
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestLoadEmptyAddr(t *testing.T) {
	ctx := context.Background()
	t.Setenv("ESTIMATOR_ADDR", "")

	Convey("Given an emptied listen address", t, func() {
		_, err := config.Load(ctx)
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}
