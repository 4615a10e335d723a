package driver

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// BrewDriver drives Homebrew on macOS.
type BrewDriver struct {
	bin string
}

// NewBrewDriver returns the Homebrew backend.
func NewBrewDriver() *BrewDriver {
	return &BrewDriver{bin: "brew"}
}

func (d *BrewDriver) Name() string {
	return "brew"
}

func (d *BrewDriver) Available() bool {
	_, err := exec.LookPath(d.bin)
	return err == nil
}

func (d *BrewDriver) Installed(ctx context.Context, ref string) (bool, error) {
	cmd := exec.CommandContext(ctx, d.bin, "list", "--versions", ref)
	if err := cmd.Run(); err != nil {
		// brew list --versions exits 1 when the formula is not installed.
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("brew list %s: %w", ref, err)
	}
	return true, nil
}

func (d *BrewDriver) Install(ctx context.Context, ref string) error {
	cmd := exec.CommandContext(ctx, d.bin, "install", ref)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("brew install %s: %w: %s", ref, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (d *BrewDriver) InstalledPackages(ctx context.Context) ([]Package, error) {
	cmd := exec.CommandContext(ctx, d.bin, "list", "--versions")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("brew list: %w", err)
	}
	return parseBrewList(string(output)), nil
}

// parseBrewList reads "name version [version...]" lines.
func parseBrewList(output string) []Package {
	var pkgs []Package
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		p := Package{ID: fields[0], Ref: fields[0]}
		if len(fields) > 1 {
			p.Version = fields[1]
		}
		pkgs = append(pkgs, p)
	}
	return pkgs
}
