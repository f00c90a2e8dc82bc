package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/entities"
)

// 4096 is more than Sentry will accept by default. Raising it further also
// requires raising SENTRY_MAX_EXTRA_VARIABLE_SIZE in the Sentry
// configuration.
const DefaultStringMaxLength = 4096

const Usage = "usage: cron-sentry [--dsn SENTRY_DSN] [-M STRING_MAX_LENGTH] [--quiet] [--version] cmd [arg ...]"

var ErrMissingCommand = errors.New("missing command parameter")

// Options mirrors the command line. The struct tags are interpreted by
// github.com/jessevdk/go-flags. The max-length fields are pointers so that
// an explicitly passed value, even one equal to the default, is
// distinguishable from an absent flag.
type Options struct {
	Dsn              string `long:"dsn" env:"SENTRY_DSN" description:"Sentry server address"`
	StringMaxLength  *int   `short:"M" long:"string-max-length" description:"the maximum length of the captured output tails sent to Sentry (defaults to 4096)"`
	MaxMessageLength *int   `long:"max-message-length" hidden:"true" description:"alias for --string-max-length"`
	Quiet            bool   `short:"q" long:"quiet" description:"suppress all command output"`
	Version          bool   `long:"version" description:"print the version and exit"`

	Args struct {
		Command []string `positional-arg-name:"cmd" description:"the command to run"`
	} `positional-args:"yes"`

	confPaths []string
}

// Parse interprets the command line, without the program name. Everything
// after the first non-option argument belongs to the wrapped command, so
// both of these work:
//
//	cron-sentry --dsn http://dsn -- command --arg1 value1
//	cron-sentry --dsn http://dsn command --arg1 value1
func Parse(args []string) (*Options, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash|flags.PassAfterNonOption)
	parser.Usage = "[--dsn SENTRY_DSN] [-M STRING_MAX_LENGTH] [--quiet] [--version] cmd [arg ...]"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	opts.confPaths = defaultConfPaths()
	return &opts, nil
}

// BuildConfig assembles and validates the runtime config. The command line
// takes precedence, then the first existing config file, then the built-in
// defaults. The extra metadata is scanned from environ.
func (o *Options) BuildConfig(environ []string) (*entities.Config, error) {
	command := o.Args.Command
	if len(command) > 0 && command[0] == "--" {
		command = command[1:]
	}
	if len(command) == 0 {
		return nil, ErrMissingCommand
	}

	maxLength, maxLengthSet := o.resolveMaxLength()

	config := &entities.Config{
		Dsn:             o.Dsn,
		StringMaxLength: maxLength,
		Quiet:           o.Quiet,
		Command:         command,
		Extra:           extraFromEnviron(environ),
	}

	if config.Dsn == "" {
		conf, err := loadConfFile(o.confPaths)
		if err != nil {
			return nil, err
		}
		if conf != nil {
			config.Dsn = conf.Dsn
			if !maxLengthSet && conf.StringMaxLength > 0 {
				config.StringMaxLength = conf.StringMaxLength
			}
			if !config.Quiet {
				config.Quiet = conf.Quiet
			}
		}
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("Invalid config: %w", err)
	}

	return config, nil
}

// resolveMaxLength picks the configured tail length. --string-max-length
// wins over its historical --max-message-length spelling; an explicitly
// passed value beats the config file even when it equals the default.
func (o *Options) resolveMaxLength() (int, bool) {
	switch {
	case o.StringMaxLength != nil:
		return *o.StringMaxLength, true
	case o.MaxMessageLength != nil:
		return *o.MaxMessageLength, true
	default:
		return DefaultStringMaxLength, false
	}
}

func defaultConfPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".cron-sentry"))
	} else {
		logrus.WithError(err).Debug("Failed to resolve the home directory")
	}
	return append(paths, "/etc/cron-sentry.conf")
}

const extraEnvPrefix = "CRON_SENTRY_EXTRA_"

// extraFromEnviron collects the CRON_SENTRY_EXTRA_* entries, with the
// prefix stripped. Entries whose key becomes empty are discarded.
func extraFromEnviron(environ []string) map[string]string {
	extra := map[string]string{}
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, extraEnvPrefix) {
			continue
		}

		key = key[len(extraEnvPrefix):]
		if key == "" {
			continue
		}
		extra[key] = value
	}
	return extra
}
