package app

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Mirror log records to standard error",
	}

	hostFlag = &cli.StringFlag{
		Name:  "host",
		Usage: "Interface for the HTTP server (default: 127.0.0.1)",
	}

	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port for the HTTP server (default: 8080)",
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the session database",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "One of debug, info, warn or error (default: info)",
	}

	logFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "One of text or json (default: text)",
	}

	amqpURLFlag = &cli.StringFlag{
		Name:  "amqp-url",
		Usage: "Publish violations to the RabbitMQ broker at this URL",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the result as JSON",
	}

	nameFlag = &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    "Candidate name",
		Required: true,
	}

	emailFlag = &cli.StringFlag{
		Name:     "email",
		Aliases:  []string{"e"},
		Usage:    "Candidate email address",
		Required: true,
	}

	notesFlag = &cli.StringFlag{
		Name:  "notes",
		Usage: "Free-form notes about the session",
	}

	statusFlag = &cli.StringFlag{
		Name:  "status",
		Usage: "Only list sessions in this status (pending, active, completed, expired)",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only list sessions created after this time (e.g. '2 days ago')",
	}

	untilFlag = &cli.StringFlag{
		Name:  "until",
		Usage: "Only list sessions created before this time",
	}

	onFlag = &cli.StringFlag{
		Name:  "on",
		Usage: "Only list sessions created on this day (e.g. 'yesterday')",
	}

	sortFlag = &cli.StringFlag{
		Name:  "sort",
		Usage: "Sort sessions by 'created' or 'name'",
		Value: "created",
	}

	categoryFlag = &cli.StringFlag{
		Name:     "category",
		Aliases:  []string{"c"},
		Usage:    "Violation category (focus_lost, no_face, multiple_faces, device_detected, materials_detected)",
		Required: true,
	}

	descriptionFlag = &cli.StringFlag{
		Name:    "description",
		Aliases: []string{"d"},
		Usage:   "Human readable description of the violation",
	}

	confidenceFlag = &cli.Float64Flag{
		Name:  "confidence",
		Usage: "Detection confidence between 0 and 1",
		Value: 1,
	}

	tierFlag = &cli.StringFlag{
		Name:  "tier",
		Usage: "Only list reports in this risk tier (LOW, MEDIUM, HIGH, CRITICAL)",
	}

	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of reports to list (0 lists all)",
	}

	offsetFlag = &cli.IntFlag{
		Name:  "offset",
		Usage: "Number of reports to skip",
	}

	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed for the simulated signal (default: current time)",
	}

	intervalFlag = &cli.DurationFlag{
		Name:  "interval",
		Usage: "Pause between simulated samples",
		Value: 3 * time.Second,
	}

	samplesFlag = &cli.IntFlag{
		Name:  "samples",
		Usage: "Stop after this many samples (0 runs until interrupted)",
	}

	pacedFlag = &cli.BoolFlag{
		Name:  "paced",
		Usage: "Wait between samples according to their observed_at times. Without it samples are sent at once and detection windows follow observed_at",
	}

	watchFlag = &cli.BoolFlag{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Show a live dashboard of the session while samples stream in",
	}

	completeFlag = &cli.BoolFlag{
		Name:  "complete",
		Usage: "Complete the session and print its report when the signal ends",
	}
)
