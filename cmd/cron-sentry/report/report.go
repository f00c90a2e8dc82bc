package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/entities"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/sentry"
)

// Sender delivers a single failure event. Implemented by sentry.Client.
type Sender interface {
	CaptureMessage(ctx context.Context, message string, extra map[string]any, timeSpentMs int64) (string, error)
}

type Reporter struct {
	Dsn   string
	Extra map[string]string

	newSender func(dsn string) (Sender, error)
}

func NewReporter(dsn string, extra map[string]string) *Reporter {
	return &Reporter{
		Dsn:   dsn,
		Extra: extra,
		newSender: func(dsn string) (Sender, error) {
			return sentry.NewClient(dsn)
		},
	}
}

// ReportFailure builds and delivers the failure event for a finished run.
// It is a no-op unless a dsn is configured and the exit status is nonzero;
// in the no-op case no client is constructed and no network activity
// occurs. Delivery errors are returned untouched, there is no retry.
func (r *Reporter) ReportFailure(ctx context.Context, command []string, report *entities.ExecutionReport) error {
	if r.Dsn == "" || report.ExitStatus == 0 {
		return nil
	}

	message := fmt.Sprintf("Command %q failed", strings.Join(command, " "))

	// Caller-supplied metadata forms the base; the reserved keys always win.
	extra := lo.Assign(
		lo.MapEntries(r.Extra, func(k string, v string) (string, any) { return k, any(v) }),
		map[string]any{
			"command":           command,
			"exit_status":       report.ExitStatus,
			"last_lines_stdout": report.StdoutTail,
			"last_lines_stderr": report.StderrTail,
		},
	)

	sender, err := r.newSender(r.Dsn)
	if err != nil {
		return fmt.Errorf("Error creating the delivery client: %w", err)
	}

	eventId, err := sender.CaptureMessage(ctx, message, extra, report.WallTimeMs)
	if err != nil {
		return err
	}

	logrus.WithField("event_id", eventId).Debug("Reported the failed command")
	return nil
}
