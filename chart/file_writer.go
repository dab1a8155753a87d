package chart

import (
	"fmt"
	"io"
	"os"
)

// writeFile writes the rendered image next to path, syncs it and renames it
// into place so readers never observe a partially written chart
func writeFile(path string, wt io.WriterTo) error {
	tmpPath := path + ".tmp"

	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	if _, err := wt.WriteTo(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	if err := syncFile(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}
	return nil
}
