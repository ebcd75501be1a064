package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Host      string
	DB        string
	LogLevel  string
	LogFormat string
	AMQPURL   string
	Port      int
}

// WithCLIConfig returns an Option that overrides file settings with the
// flags set on the command line.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		var opts CLIOptions

		if ctx.IsSet("host") {
			opts.Host = ctx.String("host")
		}

		if ctx.IsSet("port") {
			opts.Port = ctx.Int("port")
		}

		if ctx.IsSet("db") {
			opts.DB = ctx.String("db")
		}

		if ctx.IsSet("log-level") {
			opts.LogLevel = ctx.String("log-level")
		}

		if ctx.IsSet("log-format") {
			opts.LogFormat = ctx.String("log-format")
		}

		if ctx.IsSet("amqp-url") {
			opts.AMQPURL = ctx.String("amqp-url")
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies the non-empty CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.Host != "" {
		c.Server.Host = opts.Host
	}

	if opts.Port != 0 {
		c.Server.Port = opts.Port
	}

	if opts.DB != "" {
		c.System.DBPath = opts.DB
	}

	if opts.LogLevel != "" {
		c.Log.Level = opts.LogLevel
	}

	if opts.LogFormat != "" {
		c.Log.Format = opts.LogFormat
	}

	if opts.AMQPURL != "" {
		c.Notify.AMQPURL = opts.AMQPURL
	}
}
