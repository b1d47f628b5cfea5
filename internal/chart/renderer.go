// Package chart draws the 24h power profile as a one-page PDF.
package chart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"loadprofile/internal/dataprocessing"
	"loadprofile/internal/errors"
)

// Title is printed above the plot.
const Title = "Power with loss over 24h"

const (
	minutesPerDay = 24 * 60

	pageLeft   = 25.0
	pageTop    = 28.0
	plotWidth  = 250.0
	plotHeight = 145.0
	pointSize  = 0.6
)

type rgb struct{ r, g, b int }

// lineStyle is a profile line; an empty dash draws it solid.
type lineStyle struct {
	color rgb
	dash  []float64
}

var (
	scatterColor = rgb{150, 150, 150}
	gridColor    = rgb{225, 225, 225}

	averageLine = lineStyle{color: rgb{214, 39, 40}}
	maximumLine = lineStyle{color: rgb{31, 119, 180}, dash: []float64{2.5, 1.5}}
)

// Renderer draws profiles with gofpdf.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a chart renderer
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render writes the chart of p to path.
func (r *Renderer) Render(ctx context.Context, p *dataprocessing.Profile, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create chart directory", err).WithContext("path", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create chart file", err).WithContext("path", path)
	}
	defer file.Close()

	if err := r.RenderTo(file, p); err != nil {
		return errors.NewStorageError("failed to render chart", err).WithContext("path", path)
	}
	if err := file.Close(); err != nil {
		return errors.NewStorageError("failed to close chart file", err).WithContext("path", path)
	}

	r.logger.InfoContext(ctx, "chart written",
		slog.String("path", path),
		slog.Int("slots", len(p.Slots)),
		slog.Int("dates", len(p.Series)))
	return nil
}

// RenderTo draws p as a landscape A4 page: the raw readings of every date
// as points, the average and maximum as lines, hourly ticks on the x axis
// and a y axis starting at zero.
func (r *Renderer) RenderTo(w io.Writer, p *dataprocessing.Profile) error {
	yMax := upperBound(p)
	step := niceStep(yMax)
	yMax = math.Ceil(yMax/step) * step

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(Title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetXY(pageLeft, 12)
	pdf.CellFormat(plotWidth, 8, Title, "", 0, "C", false, 0, "")

	x := func(minute float64) float64 { return pageLeft + minute/minutesPerDay*plotWidth }
	y := func(v float64) float64 { return pageTop + plotHeight - v/yMax*plotHeight }

	// y grid and labels
	pdf.SetFont("Arial", "", 8)
	pdf.SetLineWidth(0.1)
	for v := 0.0; v <= yMax+step/2; v += step {
		setDraw(pdf, gridColor)
		pdf.Line(pageLeft, y(v), pageLeft+plotWidth, y(v))
		label := trimFloat(v)
		pdf.Text(pageLeft-2-pdf.GetStringWidth(label), y(v)+1, label)
	}

	// hourly x ticks
	for h := 0; h <= 24; h++ {
		m := float64(h * 60)
		setDraw(pdf, gridColor)
		pdf.Line(x(m), pageTop, x(m), pageTop+plotHeight)
		if h%2 == 0 && h < 24 {
			label := fmt.Sprintf("%02d:00", h)
			pdf.Text(x(m)-pdf.GetStringWidth(label)/2, pageTop+plotHeight+5, label)
		}
	}

	setDraw(pdf, rgb{0, 0, 0})
	pdf.SetLineWidth(0.3)
	pdf.Rect(pageLeft, pageTop, plotWidth, plotHeight, "D")

	pdf.SetFont("Arial", "", 10)
	pdf.Text(pageLeft+plotWidth/2-5, pageTop+plotHeight+12, "Time")
	pdf.TransformBegin()
	pdf.TransformRotate(90, pageLeft-14, pageTop+plotHeight/2+10)
	pdf.Text(pageLeft-14, pageTop+plotHeight/2+10, "Power [kW]")
	pdf.TransformEnd()

	// raw readings
	pdf.SetFillColor(scatterColor.r, scatterColor.g, scatterColor.b)
	for _, s := range p.Series {
		for i, slot := range s.Slots {
			m, err := minuteOfDay(slot)
			if err != nil {
				return err
			}
			v := s.Values[i]
			if v < 0 || v > yMax || math.IsNaN(v) {
				continue
			}
			pdf.Circle(x(m), y(v), pointSize, "F")
		}
	}

	pdf.SetLineWidth(0.5)
	if err := drawLine(pdf, p.Slots, p.Average, averageLine, x, y, yMax); err != nil {
		return err
	}
	if err := drawLine(pdf, p.Slots, p.Maximum, maximumLine, x, y, yMax); err != nil {
		return err
	}

	drawLegend(pdf, p)

	return pdf.Output(w)
}

// drawLine connects consecutive finite points of values. NaN breaks the
// line; values below zero are drawn on the axis.
func drawLine(pdf *gofpdf.Fpdf, slots []string, values []float64, style lineStyle,
	x, y func(float64) float64, yMax float64) error {
	setLine(pdf, style)
	defer pdf.SetDashPattern([]float64{}, 0)

	havePrev := false
	var px, py float64
	for i, slot := range slots {
		v := values[i]
		if math.IsNaN(v) {
			havePrev = false
			continue
		}
		m, err := minuteOfDay(slot)
		if err != nil {
			return err
		}
		cx, cy := x(m), y(math.Min(math.Max(v, 0), yMax))
		if havePrev {
			pdf.Line(px, py, cx, cy)
		}
		px, py, havePrev = cx, cy, true
	}
	return nil
}

func drawLegend(pdf *gofpdf.Fpdf, p *dataprocessing.Profile) {
	lx := pageLeft + plotWidth - 70
	ly := pageTop + 6

	pdf.SetFont("Arial", "", 8)
	pdf.SetFillColor(255, 255, 255)
	setDraw(pdf, rgb{0, 0, 0})
	pdf.SetLineWidth(0.1)
	pdf.Rect(lx-3, ly-4, 70, 17, "FD")

	pdf.SetFillColor(scatterColor.r, scatterColor.g, scatterColor.b)
	pdf.Circle(lx+3, ly-1, pointSize, "F")
	pdf.Text(lx+8, ly, fmt.Sprintf("Readings (%d days)", len(p.Series)))

	pdf.SetLineWidth(0.5)
	setLine(pdf, averageLine)
	pdf.Line(lx, ly+4, lx+6, ly+4)
	pdf.Text(lx+8, ly+5, fmt.Sprintf("Average power / %s", trimFloat(p.LossFactor)))

	setLine(pdf, maximumLine)
	pdf.Line(lx, ly+9, lx+6, ly+9)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Text(lx+8, ly+10, fmt.Sprintf("Max total power / %s", trimFloat(p.LossFactor)))
}

func setDraw(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(c.r, c.g, c.b)
}

func setLine(pdf *gofpdf.Fpdf, style lineStyle) {
	setDraw(pdf, style.color)
	pdf.SetDashPattern(style.dash, 0)
}

// minuteOfDay converts an "HH:MM" slot to minutes after midnight.
func minuteOfDay(slot string) (float64, error) {
	t, err := time.Parse(dataprocessing.SlotLayout, slot)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", slot, err)
	}
	return float64(t.Hour()*60 + t.Minute()), nil
}

// upperBound is the largest value the chart has to show, at least 1.
func upperBound(p *dataprocessing.Profile) float64 {
	top := 0.0
	for _, v := range p.Maximum {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			top = math.Max(top, v)
		}
	}
	for _, s := range p.Series {
		for _, v := range s.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				top = math.Max(top, v)
			}
		}
	}
	if top <= 0 {
		return 1
	}
	return top * 1.05
}

// niceStep picks a 1/2/5 x 10^k grid step giving five to ten lines up to top.
func niceStep(top float64) float64 {
	raw := top / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch n := raw / mag; {
	case n <= 1:
		return mag
	case n <= 2:
		return 2 * mag
	case n <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*1e6)/1e6)
}
