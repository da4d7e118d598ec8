package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 3, 15, 9, 30, 5, 0, time.UTC)

func sampleSeries() schema.BurndownSeries {
	return schema.BurndownSeries{
		Dates:  []string{"2024-03-13", "2024-03-14", "2024-03-15"},
		Ideal:  []float64{4, 2, 0},
		Actual: []int{4, 3, 3},
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Burndown Chart - octocat/hello-world\nCreated: 2024-03-15 09:30:05", Title("octocat", "hello-world", created))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "burndown_chart_octocat_hello-world_2024-03-15_09-30-05.png", Filename("octocat", "hello-world", created))
}

func TestRender(t *testing.T) {
	p, err := Render(sampleSeries(), "octocat", "hello-world", created)
	require.NoError(t, err)

	assert.Equal(t, Title("octocat", "hello-world", created), p.Title.Text)
	assert.Equal(t, "Sprint Days", p.X.Label.Text)
	assert.Equal(t, "Remaining Work", p.Y.Label.Text)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 2.0, p.X.Max)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 4.0, p.Y.Max)

	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	require.Len(t, ticks, 3)
	assert.Equal(t, "2024-03-13", ticks[0].Label)
	assert.Equal(t, "2024-03-15", ticks[2].Label)
}

func TestRenderZeroIssues(t *testing.T) {
	series := schema.BurndownSeries{
		Dates:  []string{"2024-03-14", "2024-03-15"},
		Ideal:  []float64{0, 0},
		Actual: []int{0, 0},
	}
	p, err := Render(series, "octocat", "empty", created)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 1.0, p.Y.Max)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(p, &buf, 72))
	assert.NotZero(t, buf.Len())
}

func TestRenderMisaligned(t *testing.T) {
	series := sampleSeries()
	series.Actual = series.Actual[:2]
	_, err := Render(series, "octocat", "hello-world", created)
	assert.Error(t, err)

	_, err = Render(schema.BurndownSeries{}, "octocat", "hello-world", created)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	p, err := Render(sampleSeries(), "octocat", "hello-world", created)
	require.NoError(t, err)

	dir := t.TempDir()
	name := Filename("octocat", "hello-world", created)
	got, err := Save(p, dir, name, 72)
	require.NoError(t, err)
	assert.Equal(t, name, got)

	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 12*72, cfg.Width)
	assert.Equal(t, 8*72, cfg.Height)
}

func TestSaveOverwrites(t *testing.T) {
	p, err := Render(sampleSeries(), "octocat", "hello-world", created)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err = Save(p, dir, "chart.png", 72)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestSaveMissingDirectory(t *testing.T) {
	p, err := Render(sampleSeries(), "octocat", "hello-world", created)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "does", "not", "exist")
	_, err = Save(p, dir, "chart.png", 72)
	var writeErr *schema.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.NoFileExists(t, filepath.Join(dir, "chart.png"))
}

func TestDefaultOutputDir(t *testing.T) {
	dir, err := DefaultOutputDir()
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
