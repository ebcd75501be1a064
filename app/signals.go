package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/config"
	"github.com/ayoisaiah/proctor/internal/pathutil"
	"github.com/ayoisaiah/proctor/internal/ui"
	"github.com/ayoisaiah/proctor/monitor"
	"github.com/ayoisaiah/proctor/service"
	"github.com/ayoisaiah/proctor/signal"
)

// pump drives src into the session named on the command line, then
// optionally completes the session and prints its report.
func pump(
	ctx *cli.Context,
	id, name string,
	src signal.Source,
	opts ...service.Option,
) error {
	svc, release, err := openService(ctx, opts...)
	if err != nil {
		return err
	}

	defer release()

	runCtx, stop := interruptContext(ctx)
	defer stop()

	if ctx.Bool("watch") {
		err = watch(runCtx, stop, svc, id, src)
		if err != nil {
			return err
		}

		return finish(ctx, svc, id)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Streaming " + name + " samples...")

	stats, err := signal.Pump(runCtx, src, svc, id)
	if err != nil && !stopped(err) {
		_ = spinner.Stop()
		return err
	}

	spinner.Success(pterm.Sprintf(
		"%d samples sent, %d accepted",
		stats.Samples,
		stats.Accepted,
	))

	return finish(ctx, svc, id)
}

// watch pumps src in the background while a live dashboard of the session
// runs in the foreground. Quitting the dashboard stops the pump.
func watch(
	ctx context.Context,
	stop context.CancelFunc,
	svc *service.Service,
	id string,
	src signal.Source,
) error {
	m := monitor.New(ctx, svc, id, ui.DarkTheme)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	pumpErr := make(chan error, 1)

	go func() {
		stats, err := signal.Pump(ctx, src, svc, id)
		if stopped(err) {
			err = nil
		}

		pumpErr <- err

		p.Send(monitor.DoneMsg{
			Err:      err,
			Samples:  stats.Samples,
			Accepted: stats.Accepted,
		})
	}()

	_, err := p.Run()

	stop()

	if perr := <-pumpErr; perr != nil {
		return perr
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	return nil
}

func finish(ctx *cli.Context, svc *service.Service, id string) error {
	if !ctx.Bool("complete") {
		return nil
	}

	_, err := svc.CompleteSession(ctx.Context, id)
	if err != nil && apperr.KindOf(err) != apperr.KindInvalidTransition {
		return err
	}

	r, err := svc.GenerateReport(ctx.Context, id)
	if err != nil {
		return err
	}

	return printReport(ctx, r)
}

func simulateAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	cfg := signal.DefaultSimulatedConfig()
	cfg.Interval = ctx.Duration("interval")
	cfg.Limit = ctx.Int("samples")

	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}

	return pump(ctx, id, "simulated", signal.NewSimulated(cfg))
}

func replayAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	path := ctx.Args().Get(1)
	if path == "" {
		return errMissingArg.Fmt("<file|->")
	}

	name := "stdin"
	in := config.Stdin

	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}

		defer f.Close()

		in = f
		name = pathutil.StripExtension(filepath.Base(path))
	}

	src := signal.NewReplay(in)

	if ctx.Bool("paced") {
		src.Paced = true
		return pump(ctx, id, name, src)
	}

	// detection follows the recorded observation times
	clk := clock.NewFake(time.Time{})
	tail := getEnv(ctx).cfg.Detection.Debounce().LongestSustain()

	return pump(
		ctx,
		id,
		name,
		signal.NewClocked(src, clk, tail),
		service.WithDetectionClock(clk),
	)
}
