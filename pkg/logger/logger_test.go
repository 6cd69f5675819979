package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		err := Init()

		Convey("Then a global logger is available", func() {
			So(err, ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})
	})

	Convey("Given an unknown output format", t, func() {
		err := InitWithFormat(&bytes.Buffer{}, "xml")

		Convey("Then initialization fails", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log format")
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithFormat(&buf, FormatJSON), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "plan generated", String("plan_id", "abc"), Int("slots", 3), Error(errors.New("boom")))

			Convey("Then the line is valid JSON carrying the fields and caller", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "plan generated")
				So(line["plan_id"], ShouldEqual, "abc")
				So(line["slots"], ShouldEqual, 3.0)
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then only the warning is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When using a named logger with bound fields", func() {
			Named("planner").With(String("mode", "sequential")).Info(ctx, "started")

			Convey("Then the group and bound field appear", func() {
				So(buf.String(), ShouldContainSubstring, `"planner"`)
				So(buf.String(), ShouldContainSubstring, "sequential")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		Convey("Then known names are accepted in any case", func() {
			for _, lvl := range []string{"debug", "INFO", " warn ", "Warning", "error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown names are rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		})
	})
}
