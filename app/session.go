package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/config"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/internal/timeutil"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/store"
)

var errUnknownStatus = &apperr.Error{
	Message: "unknown session status: %s",
	Kind:    apperr.KindValidation,
}

// sessionFilter builds a store filter from the list flags.
func sessionFilter(ctx *cli.Context) (store.SessionFilter, error) {
	var (
		f   store.SessionFilter
		err error
	)

	if s := ctx.String("status"); s != "" {
		f.Status = models.Status(s)
		if !f.Status.Valid() {
			return f, errUnknownStatus.Fmt(s)
		}
	}

	now := timeNow()

	if s := ctx.String("on"); s != "" {
		day, err := timeutil.FromStr(s, now)
		if err != nil {
			return f, err
		}

		f.Since = timeutil.RoundToStart(day)
		f.Until = timeutil.RoundToEnd(day)

		return f, nil
	}

	if s := ctx.String("since"); s != "" {
		f.Since, err = timeutil.FromStr(s, now)
		if err != nil {
			return f, err
		}
	}

	if s := ctx.String("until"); s != "" {
		f.Until, err = timeutil.FromStr(s, now)
		if err != nil {
			return f, err
		}
	}

	return f, nil
}

func createSessionAction(ctx *cli.Context) error {
	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	sess, err := svc.CreateSession(ctx.Context, lifecycle.CreateInput{
		CandidateName:  ctx.String("name"),
		CandidateEmail: ctx.String("email"),
		Notes:          ctx.String("notes"),
	})
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(sess)
	}

	pterm.Success.Printfln("Created session %s", sess.ID)
	pterm.Info.Printfln("Candidate link: %s", sess.CandidateLink())

	return nil
}

func listSessionsAction(ctx *cli.Context) error {
	filter, err := sessionFilter(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	res, err := svc.ListSessions(ctx.Context, filter)
	if err != nil {
		return err
	}

	sortSessions(res.Sessions, ctx.String("sort"))

	if ctx.Bool("json") {
		return printJSON(res)
	}

	if len(res.Sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	if err := printSessionsTable(config.Stdout, res.Sessions); err != nil {
		return err
	}

	return printCounts(config.Stdout, res.Counts)
}

func showSessionAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	details, err := svc.GetSession(ctx.Context, id)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(details)
	}

	return printSession(config.Stdout, details.Session, details.EventCounts)
}

func startSessionAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	sess, err := svc.StartSession(ctx.Context, id, models.JoinInfo{
		UserAgent: "proctor-cli/" + config.Version,
	})
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(sess)
	}

	pterm.Success.Printfln("Session %s is active", sess.ID)

	return nil
}

func completeSessionAction(ctx *cli.Context) error {
	id, err := sessionArg(ctx)
	if err != nil {
		return err
	}

	svc, release, err := openService(ctx)
	if err != nil {
		return err
	}

	defer release()

	sess, err := svc.CompleteSession(ctx.Context, id)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(sess)
	}

	pterm.Success.Printfln("Session %s is completed", sess.ID)

	return nil
}
