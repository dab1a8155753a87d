//go:build !linux

package chart

import (
	"os"
)

// syncFile flushes file contents to stable storage (non-Linux fallback)
func syncFile(file *os.File) error {
	return file.Sync()
}
