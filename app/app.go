// Package app defines the proctor command-line interface.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/proctor/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func sessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Create, inspect and move proctoring sessions through their lifecycle",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Register a new pending session for a candidate",
				Flags:  []cli.Flag{nameFlag, emailFlag, notesFlag, jsonFlag},
				Action: createSessionAction,
			},
			{
				Name:  "list",
				Usage: "List sessions with their status counts",
				Flags: []cli.Flag{
					statusFlag,
					sinceFlag,
					untilFlag,
					onFlag,
					sortFlag,
					jsonFlag,
				},
				Action: listSessionsAction,
			},
			{
				Name:      "show",
				Usage:     "Show a session and its violation counts",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    showSessionAction,
			},
			{
				Name:      "start",
				Usage:     "Activate a pending session",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    startSessionAction,
			},
			{
				Name:      "complete",
				Usage:     "End an active session",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    completeSessionAction,
			},
		},
	}
}

func eventCommand() *cli.Command {
	return &cli.Command{
		Name:  "event",
		Usage: "Record or list violation events",
		Subcommands: []*cli.Command{
			{
				Name:      "log",
				Usage:     "Record a violation directly, bypassing detection",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					categoryFlag,
					descriptionFlag,
					confidenceFlag,
					jsonFlag,
				},
				Action: logEventAction,
			},
			{
				Name:      "list",
				Usage:     "List the violations of a session in time order",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    listEventsAction,
			},
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Generate and view integrity reports",
		Subcommands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Score a session and store its report",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    generateReportAction,
			},
			{
				Name:      "show",
				Usage:     "Print the stored report of a session",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    showReportAction,
			},
			{
				Name:   "list",
				Usage:  "List stored reports, newest first",
				Flags:  []cli.Flag{tierFlag, limitFlag, offsetFlag, jsonFlag},
				Action: listReportsAction,
			},
		},
	}
}

// Get retrieves the proctor app instance.
func Get() *cli.App {
	proctorApp := &cli.App{
		Name: "proctor",
		Usage: `
		Proctor watches the perception signals of an online exam session, turns
		sustained anomalies into violation events and scores each session into
		an integrity report.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			sessionCommand(),
			eventCommand(),
			reportCommand(),
			{
				Name:      "simulate",
				Usage:     "Feed simulated perception samples into an active session",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					seedFlag,
					intervalFlag,
					samplesFlag,
					watchFlag,
					completeFlag,
				},
				Action: simulateAction,
			},
			{
				Name:      "replay",
				Usage:     "Feed recorded JSON-lines samples into an active session",
				ArgsUsage: "<session-id> <file|->",
				Flags:     []cli.Flag{pacedFlag, watchFlag, completeFlag},
				Action:    replayAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve the proctoring API over HTTP",
				Action: serveAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			hostFlag,
			portFlag,
			dbFlag,
			logLevelFlag,
			logFormatFlag,
			amqpURLFlag,
			noColorFlag,
			verboseFlag,
		},
		Before: beforeAction,
		After:  afterAction,
	}

	return proctorApp
}
