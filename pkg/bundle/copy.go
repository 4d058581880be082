package bundle

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

// copyFile copies src to dest, creating parent directories as needed.
// Permission bits and the modification time are carried over, so repeated
// builds keep stable timestamps for downstream change detection.
func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}

	return os.Chtimes(dest, time.Now(), info.ModTime())
}
