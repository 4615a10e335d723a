package driver

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// WingetDriver drives the Windows Package Manager.
type WingetDriver struct {
	bin string
}

// NewWingetDriver returns the winget backend.
func NewWingetDriver() *WingetDriver {
	return &WingetDriver{bin: "winget"}
}

func (d *WingetDriver) Name() string {
	return "winget"
}

func (d *WingetDriver) Available() bool {
	_, err := exec.LookPath(d.bin)
	return err == nil
}

func (d *WingetDriver) Installed(ctx context.Context, ref string) (bool, error) {
	cmd := exec.CommandContext(ctx, d.bin, "list", "--id", ref, "--exact",
		"--accept-source-agreements", "--disable-interactivity")
	output, err := cmd.CombinedOutput()
	if err != nil {
		// winget exits nonzero when no package matches.
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("winget list %s: %w", ref, err)
	}
	return strings.Contains(string(output), ref), nil
}

func (d *WingetDriver) Install(ctx context.Context, ref string) error {
	cmd := exec.CommandContext(ctx, d.bin, "install", "--id", ref, "--exact", "--silent",
		"--accept-package-agreements", "--accept-source-agreements", "--disable-interactivity")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("winget install %s: %w: %s", ref, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (d *WingetDriver) InstalledPackages(ctx context.Context) ([]Package, error) {
	cmd := exec.CommandContext(ctx, d.bin, "list", "--accept-source-agreements", "--disable-interactivity")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("winget list: %w", err)
	}
	return parseWingetList(string(output)), nil
}

// parseWingetList extracts packages from winget's fixed-width table. The
// Id column is located from the header row; rows before the dashed
// separator are ignored.
func parseWingetList(output string) []Package {
	lines := strings.Split(output, "\n")

	idCol, verCol := -1, -1
	var pkgs []Package
	inTable := false
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if !inTable {
			if idx := strings.Index(line, "Id"); idx >= 0 && strings.HasPrefix(strings.TrimSpace(line), "Name") {
				idCol = idx
				if v := strings.Index(line, "Version"); v >= 0 {
					verCol = v
				}
				continue
			}
			if strings.HasPrefix(line, "---") {
				inTable = true
			}
			continue
		}
		if idCol < 0 || len(line) <= idCol {
			continue
		}
		rest := line[idCol:]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		p := Package{ID: fields[0], Ref: fields[0]}
		if verCol > idCol && len(line) > verCol {
			if vf := strings.Fields(line[verCol:]); len(vf) > 0 {
				p.Version = vf[0]
			}
		}
		pkgs = append(pkgs, p)
	}
	return pkgs
}
