package notify

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"

	"github.com/ayoisaiah/proctor/internal/models"
)

// DesktopPublisher raises a desktop notification for every violation.
type DesktopPublisher struct {
	notify func(title, message, icon string) error
	icon   string
}

// NewDesktopPublisher returns a publisher that uses the icon shipped in the
// data directory of appDir, if there is one.
func NewDesktopPublisher(appDir string) *DesktopPublisher {
	// empty when the icon is missing
	icon, _ := xdg.SearchDataFile(filepath.Join(appDir, "static", "icon.svg"))

	return &DesktopPublisher{
		notify: beeep.Notify,
		icon:   icon,
	}
}

func (p *DesktopPublisher) Publish(_ context.Context, ev *models.ViolationEvent) error {
	title := fmt.Sprintf("Violation: %s", ev.Category)
	msg := fmt.Sprintf("Session %s: %s", ev.SessionID, ev.Description)

	return p.notify(title, msg, p.icon)
}
