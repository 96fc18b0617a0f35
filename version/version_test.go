package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	info := Info{Version: "v1.2.0", Commit: "0123456789abcdef"}
	assert.Equal(t, "v1.2.0 (0123456)", info.Short())

	info.Modified = true
	assert.Equal(t, "v1.2.0 (0123456-dirty)", info.Short())

	assert.Equal(t, "dev (none)", Info{Version: "dev", Commit: "none"}.Short())
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.NotEmpty(t, info.Version)
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"))
	assert.Contains(t, info.String(), "Platform:\t"+info.Platform)
}
