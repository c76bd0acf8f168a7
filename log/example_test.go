package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/rtm/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))

	logger.Info("not shown")
	logger.Warn("undefined variable", slog.String("token", "$account"))
	// Output:
	// level=WARN msg="undefined variable" token=$account
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"),
	)

	logger.With(slog.String("file", "withdraw.rtm")).
		Trace("lint complete", slog.Int("diagnostics", 0))
	// Output:
	// {"level":"TRACE","msg":"lint complete","file":"withdraw.rtm","diagnostics":0}
}
