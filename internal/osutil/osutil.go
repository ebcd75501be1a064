// Package osutil holds platform and process constants.
package osutil

const (
	Windows = "windows"
)

type exitCode int

const (
	ExitOK    exitCode = 0
	ExitError exitCode = 1
)

// Int returns the code for os.Exit.
func (e exitCode) Int() int {
	return int(e)
}
