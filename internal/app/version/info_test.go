package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	origVersion, origCommit, origTime := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = origVersion, origCommit, origTime })

	Version, Commit, BuildTime = "v1.2.3", "abc123", "2026-01-02T03:04:05Z"
	out := GetFullVersion()
	assert.Contains(t, out, "mintregistry v1.2.3 (abc123)")
	assert.Contains(t, out, "2026-01-02 03:04:05")
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)

	BuildTime = "yesterday"
	assert.Contains(t, GetFullVersion(), "构建时间: yesterday")
}
