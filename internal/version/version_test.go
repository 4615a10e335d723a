package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abcdef1234567890",
		Date:      "2025-12-19",
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
	}

	s := info.String()
	assert.True(t, strings.HasPrefix(s, "rigup 1.2.3"))
	assert.Contains(t, s, "abcdef12")
	assert.NotContains(t, s, "abcdef1234567890")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "1.2.3", Info{Version: "1.2.3"}.Short())
}
