package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/config"
	"github.com/ayoisaiah/proctor/internal/geo"
	"github.com/ayoisaiah/proctor/internal/logger"
	"github.com/ayoisaiah/proctor/internal/osutil"
	"github.com/ayoisaiah/proctor/internal/pathutil"
	"github.com/ayoisaiah/proctor/internal/ui"
	"github.com/ayoisaiah/proctor/notify"
	"github.com/ayoisaiah/proctor/server"
	"github.com/ayoisaiah/proctor/service"
	"github.com/ayoisaiah/proctor/store"
)

const (
	envNoColor        = "NO_COLOR"
	envProctorNoColor = "PROCTOR_NO_COLOR"

	envKey = "env"
)

var (
	errMissingArg = &apperr.Error{
		Message: "missing argument: %s",
		Kind:    apperr.KindValidation,
	}

	errInvalidEditor = &apperr.Error{
		Message: "unable to parse editor command %q",
		Kind:    apperr.KindValidation,
	}
)

var timeNow = time.Now

// env is the state shared by every command of one invocation.
type env struct {
	cfg       *config.Config
	logCloser io.Closer
}

func getEnv(ctx *cli.Context) *env {
	e, _ := ctx.App.Metadata[envKey].(*env)
	return e
}

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// sessionArg returns the session id given as the first argument.
func sessionArg(ctx *cli.Context) (string, error) {
	id := ctx.Args().First()
	if id == "" {
		return "", errMissingArg.Fmt("<session-id>")
	}

	return id, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(config.Stdout, string(b))

	return err
}

// openService opens the database and wires a service configured from the
// loaded settings. The returned function releases everything it opened.
func openService(
	ctx *cli.Context,
	extra ...service.Option,
) (*service.Service, func(), error) {
	cfg := getEnv(ctx).cfg

	st, err := store.NewClient(cfg.System.DBPath)
	if err != nil {
		return nil, nil, err
	}

	pub, releasePub, err := notify.New(notify.Settings{
		AMQPURL:  cfg.Notify.AMQPURL,
		Exchange: cfg.Notify.Exchange,
		Command:  cfg.Notify.Command,
		Desktop:  cfg.Notify.Desktop,
		Sound:    cfg.Notify.Sound,
		AppDir:   pathutil.Dir(),
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	opts := []service.Option{
		service.WithContext(ctx.Context),
		service.WithExpiry(cfg.Session.Expiry),
		service.WithDetection(cfg.Detection.Debounce()),
		service.WithPublisher(pub),
	}

	var countries *geo.Reader

	if cfg.GeoIP.Database != "" {
		countries, err = geo.Open(cfg.GeoIP.Database)
		if err != nil {
			releasePub()
			_ = st.Close()

			return nil, nil, err
		}

		opts = append(opts, service.WithLocator(countries))
	}

	svc := service.New(st, append(opts, extra...)...)

	release := func() {
		svc.Close()
		releasePub()

		if countries != nil {
			_ = countries.Close()
		}

		if err := st.Close(); err != nil {
			slog.ErrorContext(ctx.Context, "closing database", slog.Any("error", err))
		}
	}

	return svc, release, nil
}

// interruptContext is cancelled on SIGINT or SIGTERM.
func interruptContext(ctx *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
}

// serveAction runs the HTTP API until interrupted.
func serveAction(ctx *cli.Context) error {
	cfg := getEnv(ctx).cfg

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	gin.SetMode(gin.ReleaseMode)

	runCtx, stop := interruptContext(ctx)
	defer stop()

	srv := server.New(
		svc,
		cfg.Server.Addr(),
		server.WithSweepInterval(cfg.Server.SweepInterval),
	)

	pterm.Info.Printfln("Listening on http://%s", cfg.Server.Addr())

	return srv.Run(runCtx)
}

// editConfigAction handles the edit-config command which opens the proctor
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	// EDITOR may carry arguments, e.g. "code --wait"
	args, err := shellquote.Split(editor)
	if err != nil || len(args) == 0 {
		return errInvalidEditor.Fmt(editor)
	}

	args = append(args, getEnv(ctx).cfg.System.ConfigPath)

	cmd := exec.CommandContext(ctx.Context, args[0], args[1:]...)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// loadConfig reads the config file, asking for the main settings on first
// run, and applies the global flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	configPath := pathutil.ConfigFilePath()

	return config.New(
		config.WithPaths(configPath, pathutil.DBFilePath(), pathutil.LogFilePath()),
		config.WithPromptConfig(configPath),
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if PROCTOR_NO_COLOR is set
	if _, exists := os.LookupEnv(envProctorNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	var console io.Writer
	if ctx.Bool("verbose") || ctx.Args().First() == "serve" {
		console = config.Stderr
	}

	closer, err := logger.Setup(logger.Options{
		Console:    console,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Path:       cfg.System.LogPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return err
	}

	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]any)
	}

	ctx.App.Metadata[envKey] = &env{cfg: cfg, logCloser: closer}

	return nil
}

func afterAction(ctx *cli.Context) error {
	e := getEnv(ctx)
	if e == nil {
		return nil
	}

	slog.InfoContext(ctx.Context, "exiting proctor")

	return e.logCloser.Close()
}

// stopped reports whether err only signals an interrupted run.
func stopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
