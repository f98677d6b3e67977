package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

var renameFile = os.Rename

// Replace atomically swaps finalPath's content for tempPath's. On the same
// filesystem this is a single rename. When the rename fails with EXDEV the
// content is first copied to a sibling of finalPath on the destination
// filesystem and renamed from there, then the original temp file is removed.
// At no point does finalPath hold partially written content.
func Replace(tempPath, finalPath string) error {
	err := renameFile(tempPath, finalPath)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		return replaceAcrossDevices(tempPath, finalPath)
	}
	return err
}

func replaceAcrossDevices(tempPath, finalPath string) error {
	dir := filepath.Dir(finalPath)
	siblingTemp := filepath.Join(dir, ".swap."+filepath.Base(finalPath)+".tmp")

	if err := CopyFile(tempPath, siblingTemp); err != nil {
		_ = os.Remove(siblingTemp)
		return fmt.Errorf("copy across devices: %w", err)
	}
	if err := renameFile(siblingTemp, finalPath); err != nil {
		_ = os.Remove(siblingTemp)
		return fmt.Errorf("swap into place: %w", err)
	}
	if err := os.Remove(tempPath); err != nil {
		return fmt.Errorf("remove source temp after copy: %w", err)
	}
	return nil
}

// CopyFile streams src to dst with default permissions (0o644), syncing the
// destination before close so a crash cannot leave a hollow file behind.
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
