package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const defaultPlotWindow = 512

var (
	originalColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	reconstructedColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	errorColor         = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// writeSignalPlot draws the first window samples of original and
// reconstructed above their pointwise error and saves the figure to path. The
// image format follows the file extension.
func writeSignalPlot(path string, original, reconstructed []float64, window int) error {
	if len(original) != len(reconstructed) {
		return fmt.Errorf("plot: %d original samples, %d reconstructed", len(original), len(reconstructed))
	}
	if window <= 0 || window > len(original) {
		window = len(original)
	}

	origPts := make(plotter.XYs, window)
	reconPts := make(plotter.XYs, window)
	errPts := make(plotter.XYs, window)
	for i := range window {
		origPts[i] = plotter.XY{X: float64(i), Y: original[i]}
		reconPts[i] = plotter.XY{X: float64(i), Y: reconstructed[i]}
		errPts[i] = plotter.XY{X: float64(i), Y: reconstructed[i] - original[i]}
	}

	pSignal := plot.New()
	pSignal.Title.Text = "Signal vs reconstruction"
	pSignal.X.Label.Text = "Sample"
	pSignal.Y.Label.Text = "Value"

	origLine, err := plotter.NewLine(origPts)
	if err != nil {
		return err
	}
	origLine.Color = originalColor
	origLine.Width = vg.Points(1)

	reconLine, err := plotter.NewLine(reconPts)
	if err != nil {
		return err
	}
	reconLine.Color = reconstructedColor
	reconLine.Width = vg.Points(1)
	reconLine.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}

	pSignal.Add(origLine, reconLine)
	pSignal.Legend.Add("original", origLine)
	pSignal.Legend.Add("reconstructed", reconLine)
	pSignal.Legend.Top = true
	pSignal.Legend.Left = false
	pSignal.Legend.XOffs = -10
	pSignal.Legend.YOffs = -10

	pErr := plot.New()
	pErr.Title.Text = "Reconstruction error"
	pErr.X.Label.Text = "Sample"
	pErr.Y.Label.Text = "Error"

	errLine, err := plotter.NewLine(errPts)
	if err != nil {
		return err
	}
	errLine.Color = errorColor
	errLine.Width = vg.Points(1)
	pErr.Add(errLine, plotter.NewGrid())

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create plot directory: %w", err)
		}
	}

	const width, height = 14 * vg.Inch, 9 * vg.Inch
	img, err := draw.NewFormattedCanvas(width, height, formatFor(path))
	if err != nil {
		return fmt.Errorf("plot canvas: %w", err)
	}

	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Points(8), PadTop: vg.Points(4), PadBottom: vg.Points(4)}
	canvases := plot.Align([][]*plot.Plot{{pSignal}, {pErr}}, tiles, draw.New(img))
	pSignal.Draw(canvases[0][0])
	pErr.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	defer f.Close()

	if _, err := img.WriteTo(f); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return f.Close()
}

func formatFor(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
		return ext[1:]
	default:
		return "png"
	}
}
