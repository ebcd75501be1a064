package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/proctor/internal/config"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/internal/ui"
	"github.com/ayoisaiah/proctor/report"
)

func printReport(ctx *cli.Context, r *models.IntegrityReport) error {
	if ctx.Bool("json") {
		return report.WriteJSON(config.Stdout, r)
	}

	return report.Render(config.Stdout, r)
}

func generateReportAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	r, err := svc.GenerateReport(ctx.Context, id)
	if err != nil {
		return err
	}

	return printReport(ctx, r)
}

func showReportAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	r, err := svc.GetReport(ctx.Context, id)
	if err != nil {
		return err
	}

	return printReport(ctx, r)
}

func listReportsAction(ctx *cli.Context) error {
	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	page, err := svc.ListReports(ctx.Context, report.Filter{
		Tier:   models.RiskTier(ctx.String("tier")),
		Limit:  ctx.Int("limit"),
		Offset: ctx.Int("offset"),
	})
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(page)
	}

	if len(page.Reports) == 0 {
		pterm.Info.Println("No reports found")
		return nil
	}

	data := [][]string{
		{"SESSION", "CANDIDATE", "SCORE", "TIER", "EVENTS", "GENERATED"},
	}

	for i := range page.Reports {
		r := &page.Reports[i]

		data = append(data, []string{
			r.SessionID,
			r.CandidateName,
			pterm.Sprint(r.Score),
			ui.Tier(r.RiskTier),
			pterm.Sprint(r.TotalEvents),
			formatTime(&r.GeneratedAt),
		})
	}

	if err := ui.PrintTable(data, config.Stdout); err != nil {
		return err
	}

	pterm.Info.Printfln(
		"Showing %d of %d reports",
		len(page.Reports),
		page.Total,
	)

	return nil
}
