package main

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/proctor/app"
	"github.com/ayoisaiah/proctor/internal/osutil"
)

const (
	configDir = "proctor"
)

//go:embed static/*
var static embed.FS

// installStatic copies the embedded assets into the data directory unless
// they are already there.
func installStatic() error {
	return fs.WalkDir(static, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		relPath := filepath.Join(configDir, path)

		if _, err = xdg.SearchDataFile(relPath); err == nil {
			return nil
		}

		b, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}

		pathToFile, err := xdg.DataFile(relPath)
		if err != nil {
			return err
		}

		return os.WriteFile(pathToFile, b, 0o644)
	})
}

func run(args []string) error {
	if err := installStatic(); err != nil {
		return err
	}

	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(osutil.ExitError.Int())
	}
}
