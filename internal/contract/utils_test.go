package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoArg(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "plain", input: "octocat/hello-world", wantOwner: "octocat", wantRepo: "hello-world"},
		{name: "git suffix", input: "octocat/hello-world.git", wantOwner: "octocat", wantRepo: "hello-world"},
		{name: "url", input: "https://github.com/golang/go", wantOwner: "golang", wantRepo: "go"},
		{name: "trailing slash", input: "golang/go/", wantOwner: "golang", wantRepo: "go"},
		{name: "missing repo", input: "golang/", wantErr: true},
		{name: "too many parts", input: "a/b/c", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoArg(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}

func TestGetColorLabel(t *testing.T) {
	for _, status := range []schema.DayStatus{schema.AheadStatus, schema.OnTrackStatus, schema.BehindStatus} {
		assert.Contains(t, GetColorLabel(status), string(status))
	}
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".burndown_history.db"))
}

func TestPromptTokenRequiresTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close(); _ = w.Close() }()

	var prompt bytes.Buffer
	_, err = PromptToken(int(r.Fd()), &prompt)
	assert.Error(t, err)
	assert.Empty(t, prompt.String())
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(false))
	assert.NotNil(t, NewLogger(true))
}
