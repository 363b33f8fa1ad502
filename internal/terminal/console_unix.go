//go:build !windows

package terminal

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// pollInput reports whether f has input to read within timeout.
func pollInput(f *os.File, timeout time.Duration) bool {
	fds := []unix.PollFd{{Fd: int32(f.Fd()), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(timeout.Milliseconds()))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err == nil && n > 0
	}
}
