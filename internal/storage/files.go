package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadFile reads the whole file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile replaces the contents of path while holding its lock. The data
// goes to a temporary file in the same directory that is renamed into place.
func WriteFile(ctx context.Context, path string, data []byte) error {
	lock, err := DefaultLocker.Lock(ctx, path)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst while holding the lock on dst.
func CopyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	lock, err := DefaultLocker.Lock(ctx, dst)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// UpdateFile copies src over dst only when their checksums differ or dst is
// missing. It reports whether a copy happened.
func UpdateFile(ctx context.Context, src, dst string) (bool, error) {
	hasher := DefaultHasher()

	srcSum, err := hasher.HashFile(src)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dst); err == nil {
		dstSum, err := hasher.HashFile(dst)
		if err != nil {
			return false, err
		}
		if srcSum == dstSum {
			return false, nil
		}
	}

	if err := CopyFile(ctx, src, dst); err != nil {
		return false, err
	}
	return true, nil
}

// EmptyFile truncates path to zero length, creating it if needed.
func EmptyFile(ctx context.Context, path string) error {
	return WriteFile(ctx, path, nil)
}
