package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rigup-dev/rigup/internal/manifest"
)

// CopyRestorer restores captured files by copying them from a capture
// store directory back to their target paths. Files are stored under the
// entry id so targets can move between machines with different layouts.
type CopyRestorer struct {
	root string
}

// NewCopyRestorer returns a restorer reading from the given capture store.
func NewCopyRestorer(root string) *CopyRestorer {
	return &CopyRestorer{root: root}
}

func (r *CopyRestorer) Name() string {
	return "copy"
}

func (r *CopyRestorer) Restore(ctx context.Context, entry manifest.RestoreEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source := filepath.Join(r.root, entry.ID)
	target, err := ExpandPath(entry.Path)
	if err != nil {
		return fmt.Errorf("restore %s: %w", entry.ID, err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("restore %s: open captured file: %w", entry.ID, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return fmt.Errorf("restore %s: %w", entry.ID, err)
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("restore %s: %w", entry.ID, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("restore %s: copy: %w", entry.ID, err)
	}
	return out.Close()
}

// FileVerifier checks that a path exists on the machine.
type FileVerifier struct{}

// NewFileVerifier returns the file-existence verifier.
func NewFileVerifier() *FileVerifier {
	return &FileVerifier{}
}

func (v *FileVerifier) Name() string {
	return "file"
}

func (v *FileVerifier) Verify(ctx context.Context, entry manifest.VerifyEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := ExpandPath(entry.Path)
	if err != nil {
		return fmt.Errorf("verify %s: %w", entry.ID, err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("verify %s: %s: %w", entry.ID, entry.Path, err)
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
