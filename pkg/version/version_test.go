package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	vc := VersionContext{Name: "semaphore-report", Version: "v0.1.0", Commit: "abc123"}
	assert.Equal(t, "semaphore-report: v0.1.0+abc123", vc.String())
}

func TestNewCmdVersion(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := NewCmdVersion()
	cmd.SetOut(out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "semaphore-report: unknown+unknown\n", out.String())
}
