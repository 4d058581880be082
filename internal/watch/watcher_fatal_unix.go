// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalWatchErrnos holds the inotify resource-exhaustion errors. Once the
// kernel reports one of these it will not deliver events for new watches,
// so the watcher must surface the error and stop instead of retrying.
var fatalWatchErrnos = []syscall.Errno{
	syscall.ENOSPC, // fs.inotify.max_user_watches exhausted
	syscall.EMFILE, // per-process file descriptor limit
	syscall.ENFILE, // system-wide file descriptor limit
}

func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalWatchErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
