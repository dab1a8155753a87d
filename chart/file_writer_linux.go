//go:build linux

package chart

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes file data without forcing a metadata-only journal commit
func syncFile(file *os.File) error {
	for {
		err := unix.Fdatasync(int(file.Fd()))
		if err != unix.EINTR {
			return err
		}
	}
}
