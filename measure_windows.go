//go:build windows

package microbench

import (
	"time"

	"golang.org/x/sys/windows"
)

// hundredNSTicks is the resolution of a FILETIME duration.
const hundredNSTicks = 100

// processTimes queries the kernel and user time of the current process.
func processTimes() (time.Duration, time.Duration, error) {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(windows.CurrentProcess(), &creation, &exit, &kernel, &user); err != nil {
		return 0, 0, err
	}
	return filetimeDuration(user), filetimeDuration(kernel), nil
}

// filetimeDuration converts a FILETIME holding an interval, not an instant.
func filetimeDuration(ft windows.Filetime) time.Duration {
	ticks := int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
	return time.Duration(ticks * hundredNSTicks)
}
