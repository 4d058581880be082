// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// fatalWatchErrnos holds the Win32 error codes after which
// ReadDirectoryChangesW stops delivering notifications, so the watcher must
// surface the error and stop instead of retrying.
var fatalWatchErrnos = []syscall.Errno{
	syscall.Errno(4), // ERROR_TOO_MANY_OPEN_FILES, handle limit exceeded
	syscall.Errno(6), // ERROR_INVALID_HANDLE, watched directory deleted or unmounted
	syscall.Errno(8), // ERROR_NOT_ENOUGH_MEMORY, notification buffer allocation failed
}

func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalWatchErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
