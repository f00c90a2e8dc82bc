package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/options"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/report"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/run"
)

const version = "1.0.0"

func init() {
	if os.Getenv("CRON_SENTRY_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.FatalLevel)
	}

	logrus.SetOutput(os.Stderr)
}

func main() {
	opts, err := options.Parse(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		fmt.Fprintln(os.Stderr, options.Usage)
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	config, err := opts.BuildConfig(os.Environ())
	if err != nil {
		if errors.Is(err, options.ErrMissingCommand) {
			fmt.Fprintln(os.Stderr, "ERROR: Missing command parameter!")
			fmt.Fprintln(os.Stderr, options.Usage)
			os.Exit(1)
		}
		logrus.WithError(err).Fatal("Invalid config")
	}

	reporter := report.NewReporter(config.Dsn, config.Extra)

	exitStatus, err := run.Run(context.Background(), config, reporter, os.Stdout, os.Stderr)
	if err != nil {
		// A failed report delivery must not mask the command's own exit
		// status.
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	}

	os.Exit(exitStatus)
}
