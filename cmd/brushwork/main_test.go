package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const smallScript = `
(defbrush "b" (box :size [2 2 2] :texture "stone"))
(group "g" (brush "b"))
`

func TestRun(t *testing.T) {
	script := writeFile(t, "small.bw", smallScript)
	broken := writeFile(t, "broken.bw", `(group "g" (brush "ghost"))`)
	badConfig := writeFile(t, "bad.toml", "[kernel]\nname = \"manifold\"\n")
	sdfxConfig := writeFile(t, "sdfx.toml", "[kernel]\nname = \"sdfx\"\nmesh_cells = 20\n")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"evaluates", []string{script}, 0, "", "evaluated"},
		{"debug logs meshes", []string{"-log-level", "debug", script}, 0, "", "part=b"},
		{"quiet", []string{"-log-level", "error", script}, 0, "", ""},
		{"dump", []string{"-dump", script}, 0, "root g: 13 nodes, depth 6", "evaluated"},
		{"config file", []string{"-config", sdfxConfig, script}, 0, "", "kernel=sdfx"},
		{"flag overrides config", []string{"-config", sdfxConfig, "-kernel", "bsp", script}, 0, "", "kernel=bsp"},
		{"no script", nil, 2, "", "expected one script file"},
		{"unknown flag", []string{"-frobnicate", script}, 2, "", "flag provided but not defined"},
		{"bad kernel flag", []string{"-kernel", "manifold", script}, 2, "", "manifold"},
		{"bad config file", []string{"-config", badConfig, script}, 2, "", "manifold"},
		{"missing config file", []string{"-config", filepath.Join(t.TempDir(), "nope.toml"), script}, 2, "", "nope.toml"},
		{"missing script", []string{filepath.Join(t.TempDir(), "nope.bw")}, 1, "", "read script"},
		{"script error", []string{broken}, 1, "", "ghost"},
		{"dump on sdfx", []string{"-config", sdfxConfig, "-dump", script}, 1, "", "needs the bsp kernel"},
		{"carve unknown", []string{"-carve", "ghost", script}, 1, "", "no brush named"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			if tt.wantStdout != "" {
				assert.Contains(t, stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			} else {
				assert.Empty(t, stderr.String())
			}
		})
	}
}

func TestRunCarve(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-carve", "cutter", "../../examples/carve.bw"}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "carve cutter: ")
	// The cutter is defined but never placed in a group.
	assert.Contains(t, stderr.String(), "orphan")
	assert.Contains(t, stderr.String(), "msg=carved")
}
