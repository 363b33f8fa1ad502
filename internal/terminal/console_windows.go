//go:build windows

package terminal

import (
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// pollInput reports whether the console input handle f is signaled within
// timeout.
func pollInput(f *os.File, timeout time.Duration) bool {
	ev, err := windows.WaitForSingleObject(windows.Handle(f.Fd()), uint32(timeout.Milliseconds()))
	return err == nil && ev == windows.WAIT_OBJECT_0
}
