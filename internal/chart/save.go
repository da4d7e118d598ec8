package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/huangsam/burndown/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Filename returns the PNG name for a chart created at t, with second precision.
func Filename(owner, repo string, t time.Time) string {
	return fmt.Sprintf("burndown_chart_%s_%s_%s.png", owner, repo, t.Format(schema.FileStampLayout))
}

// DefaultOutputDir returns the directory containing the running executable.
func DefaultOutputDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// WritePNG draws the plot edge to edge on a Width x Height canvas at the given DPI.
func WritePNG(p *plot.Plot, w io.Writer, dpi int) error {
	canvas := vgimg.NewWith(vgimg.UseWH(Width, Height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(canvas))
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Save writes the plot to dir/filename and returns filename. An existing file
// with the same name is overwritten. A partially written file is removed.
func Save(p *plot.Plot, dir, filename string, dpi int) (string, error) {
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", &schema.WriteError{Path: path, Err: err}
	}

	var result *multierror.Error
	if err := WritePNG(p, f, dpi); err != nil {
		result = multierror.Append(result, err)
	}
	if err := f.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		_ = os.Remove(path)
		return "", &schema.WriteError{Path: path, Err: err}
	}
	return filename, nil
}
