package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWingetList(t *testing.T) {
	output := "Name         Id                Version\n" +
		"---------------------------------------\n" +
		"Git          Git.Git           2.47.0\n" +
		"7-Zip        7zip.7zip         24.08\n" +
		"\n"

	pkgs := parseWingetList(output)
	require.Len(t, pkgs, 2)
	assert.Equal(t, Package{ID: "Git.Git", Ref: "Git.Git", Version: "2.47.0"}, pkgs[0])
	assert.Equal(t, Package{ID: "7zip.7zip", Ref: "7zip.7zip", Version: "24.08"}, pkgs[1])
}

func TestParseWingetListIgnoresPreamble(t *testing.T) {
	output := "   \\\n" +
		"Name         Id                Version\n" +
		"---------------------------------------\n" +
		"Git          Git.Git           2.47.0\n"

	pkgs := parseWingetList(output)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "Git.Git", pkgs[0].Ref)
}

func TestParseWingetListEmpty(t *testing.T) {
	assert.Empty(t, parseWingetList(""))
}

func TestParseBrewList(t *testing.T) {
	output := "git 2.47.0\njq 1.7.1 1.7\nripgrep 14.1.1\n"

	pkgs := parseBrewList(output)
	require.Len(t, pkgs, 3)
	assert.Equal(t, Package{ID: "git", Ref: "git", Version: "2.47.0"}, pkgs[0])
	// Multiple installed versions: the first one wins.
	assert.Equal(t, Package{ID: "jq", Ref: "jq", Version: "1.7.1"}, pkgs[1])
	assert.Equal(t, Package{ID: "ripgrep", Ref: "ripgrep", Version: "14.1.1"}, pkgs[2])
}

func TestParseBrewListSkipsBlankLines(t *testing.T) {
	pkgs := parseBrewList("\ngit 2.47.0\n\n")
	require.Len(t, pkgs, 1)
	assert.Equal(t, "git", pkgs[0].ID)
}

func TestParseDpkgList(t *testing.T) {
	output := "git 1:2.47.0-1 install ok installed\n" +
		"curl 8.11.0-1 install ok installed\n" +
		"removedpkg 1.0-1 deinstall ok config-files\n"

	pkgs := parseDpkgList(output)
	require.Len(t, pkgs, 2)
	assert.Equal(t, Package{ID: "git", Ref: "git", Version: "1:2.47.0-1"}, pkgs[0])
	assert.Equal(t, Package{ID: "curl", Ref: "curl", Version: "8.11.0-1"}, pkgs[1])
}

func TestParseDpkgListExcludesPartialStates(t *testing.T) {
	output := "halfinst 2.0-1 install ok half-configured\n"
	assert.Empty(t, parseDpkgList(output))
}
