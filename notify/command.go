package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/models"
)

var errParseCommand = &apperr.Error{
	Message: "unable to parse notify.command option",
	Kind:    apperr.KindValidation,
}

// CommandPublisher runs an operator command for every violation. Event
// details are passed through PROCTOR_* environment variables. Commands run
// one at a time on the event log's delivery worker.
type CommandPublisher struct {
	name string
	args []string
}

// NewCommandPublisher parses command with shell quoting rules.
func NewCommandPublisher(command string) (*CommandPublisher, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, errParseCommand.Wrap(err)
	}

	if len(words) == 0 {
		return nil, errParseCommand.Wrap(fmt.Errorf("empty command"))
	}

	return &CommandPublisher{name: words[0], args: words[1:]}, nil
}

func commandEnv(ev *models.ViolationEvent) []string {
	return []string{
		"PROCTOR_SESSION_ID=" + ev.SessionID,
		"PROCTOR_CATEGORY=" + string(ev.Category),
		"PROCTOR_SOURCE=" + string(ev.Source),
		"PROCTOR_DESCRIPTION=" + ev.Description,
		"PROCTOR_CONFIDENCE=" + strconv.FormatFloat(ev.Confidence, 'f', 2, 64),
		"PROCTOR_SEQ=" + strconv.FormatUint(ev.Seq, 10),
	}
}

// Publish runs the command and waits for it to exit.
func (p *CommandPublisher) Publish(
	ctx context.Context,
	ev *models.ViolationEvent,
) error {
	cmd := exec.CommandContext(ctx, p.name, p.args...)
	cmd.Env = append(os.Environ(), commandEnv(ev)...)

	return cmd.Run()
}
