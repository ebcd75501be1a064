package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/proctor/internal/config"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/report"
)

func logEventAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	ev, err := svc.LogEvent(ctx.Context, models.ViolationEvent{
		SessionID:   id,
		Category:    models.Category(ctx.String("category")),
		Description: ctx.String("description"),
		Confidence:  ctx.Float64("confidence"),
	})
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(ev)
	}

	pterm.Success.Printfln("Recorded %s event #%d", ev.Category, ev.Seq)

	return nil
}

func listEventsAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	events, err := svc.ListEvents(ctx.Context, id)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(events)
	}

	if len(events) == 0 {
		pterm.Info.Println("No violations recorded for this session")
		return nil
	}

	return report.RenderEvents(config.Stdout, events)
}
