package driver

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AptDriver drives apt/dpkg on Debian-family Linux.
type AptDriver struct {
	aptBin  string
	dpkgBin string
}

// NewAptDriver returns the apt backend.
func NewAptDriver() *AptDriver {
	return &AptDriver{aptBin: "apt-get", dpkgBin: "dpkg-query"}
}

func (d *AptDriver) Name() string {
	return "apt"
}

func (d *AptDriver) Available() bool {
	if _, err := exec.LookPath(d.aptBin); err != nil {
		return false
	}
	_, err := exec.LookPath(d.dpkgBin)
	return err == nil
}

func (d *AptDriver) Installed(ctx context.Context, ref string) (bool, error) {
	cmd := exec.CommandContext(ctx, d.dpkgBin, "-W", "-f=${Status}", ref)
	output, err := cmd.Output()
	if err != nil {
		// dpkg-query exits 1 for unknown packages.
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("dpkg-query %s: %w", ref, err)
	}
	return strings.Contains(string(output), "install ok installed"), nil
}

func (d *AptDriver) Install(ctx context.Context, ref string) error {
	cmd := exec.CommandContext(ctx, d.aptBin, "install", "-y", ref)
	cmd.Env = append(cmd.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("apt-get install %s: %w: %s", ref, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (d *AptDriver) InstalledPackages(ctx context.Context) ([]Package, error) {
	cmd := exec.CommandContext(ctx, d.dpkgBin, "-W", "-f=${Package} ${Version} ${Status}\n")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("dpkg-query: %w", err)
	}
	return parseDpkgList(string(output)), nil
}

// parseDpkgList reads "package version status..." lines and keeps only
// fully installed packages.
func parseDpkgList(output string) []Package {
	var pkgs []Package
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if !strings.Contains(line, "install ok installed") {
			continue
		}
		pkgs = append(pkgs, Package{ID: fields[0], Ref: fields[0], Version: fields[1]})
	}
	return pkgs
}
