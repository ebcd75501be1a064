package config

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
┌─┐┬─┐┌─┐┌─┐┌┬┐┌─┐┬─┐
├─┘├┬┘│ ││   │ │ │├┬┘
┴  ┴└─└─┘└─┘ ┴ └─┘┴└─`

// PromptOptions holds the operator's responses to the first-run prompts.
type PromptOptions struct {
	ExpiryDays     int
	FocusThreshold float64
	DarkTheme      bool
}

// WithPromptConfig returns an Option that asks for the main settings when
// no config file exists yet and stdin is a terminal. The answers are
// written to the new file by WithViperConfig.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return nil
		}

		if !interactive() {
			return nil
		}

		opts, err := promptUser()
		if err != nil {
			return errPrompt.Wrap(err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

func interactive() bool {
	f, ok := Stdin.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{DarkTheme: true}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure proctor for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'proctor edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How long may a session stay open after creation?").
				Options(
					huh.NewOption("1 day", 1),
					huh.NewOption("3 days", 3),
					huh.NewOption("7 days", 7).Selected(true),
					huh.NewOption("14 days", 14),
				).
				Value(&opts.ExpiryDays),
		),
		huh.NewGroup(
			huh.NewSelect[float64]().
				Title("Looking-away sensitivity").
				Options(
					huh.NewOption("Relaxed", 0.3),
					huh.NewOption("Standard", 0.4).Selected(true),
					huh.NewOption("Strict", 0.5),
				).
				Value(&opts.FocusThreshold),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use colours for a dark terminal theme?").
				Value(&opts.DarkTheme),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, err
	}

	return opts, nil
}

// applyPromptOptions applies the operator's responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Session.Expiry = time.Duration(opts.ExpiryDays) * 24 * time.Hour
	c.Detection.FocusThreshold = opts.FocusThreshold
	c.Display.DarkTheme = opts.DarkTheme
	c.prompted = true
}
