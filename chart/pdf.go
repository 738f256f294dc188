package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

const (
	pageWidth  = 210 * vg.Millimeter
	pageHeight = 297 * vg.Millimeter
	pdfMargin  = 18 * vg.Millimeter

	summaryRowHeight = 0.30 * vg.Inch
	nameColWidth     = 3.2 * vg.Inch
	valueColWidth    = 0.9 * vg.Inch
)

// RenderShares writes a PDF with a trend page for all series followed by a
// summary table with one sparkline per party.
func RenderShares(w io.Writer, title string, years []int, series []Series) error {
	if len(years) == 0 || len(series) == 0 {
		return fmt.Errorf("nothing to chart")
	}
	// The embedded Liberation font has no dash glyphs.
	title = strings.NewReplacer("—", "-", "–", "-").Replace(title)

	c := vgpdf.New(pageWidth, pageHeight)
	if err := drawTrendPage(c, title, years, series); err != nil {
		return err
	}
	c.NextPage()
	drawSummaryPages(c, title, years, series)

	_, err := c.WriteTo(w)
	return err
}

func drawTrendPage(c *vgpdf.Canvas, title string, years []int, series []Series) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	p.Y.Label.Text = "Andel röster, %"
	p.Add(plotter.NewGrid())

	for i, s := range series {
		var pts plotter.XYs
		for j, v := range s.Values {
			if !math.IsNaN(v) {
				pts = append(pts, plotter.XY{X: float64(j), Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		clr := seriesColor(s, i)

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Party, err)
		}
		line.Color = clr
		line.Width = vg.Points(2)

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Party, err)
		}
		scatter.Color = clr
		scatter.Radius = vg.Points(3)
		scatter.Shape = draw.CircleGlyph{}

		p.Add(line, scatter)
		p.Legend.Add(s.Party, line, scatter)
	}
	p.Legend.Top = true

	p.X.Tick.Marker = yearTicks(years)
	p.X.Min = -0.5
	p.X.Max = float64(len(years)) - 0.5
	p.Y.Min = 0

	dc := draw.New(c)
	area := draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	p.Draw(area)
	return nil
}

func drawSummaryPages(c *vgpdf.Canvas, title string, years []int, series []Series) {
	usableW := pageWidth - 2*pdfMargin
	usableH := pageHeight - 2*pdfMargin
	sparkColWidth := usableW - nameColWidth - valueColWidth
	maxRowsPerPage := int((usableH - 1.0*vg.Inch) / summaryRowHeight)

	period := fmt.Sprintf("%d till %d (%d val)", years[0], years[len(years)-1], len(years))

	pageNum := 0
	idx := 0
	for idx < len(series) {
		if pageNum > 0 {
			c.NextPage()
		}
		pageNum++

		dc := draw.New(c)
		area := draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)

		var yTop vg.Length
		if pageNum == 1 {
			yTop = area.Max.Y
			fillText(area, title, vg.Points(14), area.Min.X, yTop-vg.Points(14), color.Black)
			fillText(area, period, vg.Points(10), area.Min.X, yTop-0.35*vg.Inch, color.Gray{Y: 100})

			headerY := yTop - 0.6*vg.Inch
			fillText(area, "Parti", vg.Points(10), area.Min.X, headerY, color.Gray{Y: 80})
			fillText(area, "Senast, %", vg.Points(10), area.Min.X+nameColWidth, headerY, color.Gray{Y: 80})
			fillText(area, "Trend", vg.Points(10), area.Min.X+nameColWidth+valueColWidth, headerY, color.Gray{Y: 80})

			sepY := headerY - vg.Points(6)
			strokeHLine(area, area.Min.X, area.Min.X+usableW, sepY, color.Gray{Y: 180})
			yTop = sepY - vg.Points(4)
		} else {
			yTop = area.Max.Y - vg.Points(8)
			fillText(area, title+" (forts.)", vg.Points(10), area.Min.X, yTop, color.Gray{Y: 100})
			yTop -= 0.25 * vg.Inch
		}

		rowsThisPage := maxRowsPerPage
		if pageNum == 1 {
			rowsThisPage = int((yTop - area.Min.Y) / summaryRowHeight)
		}

		for drawn := 0; idx < len(series) && drawn < rowsThisPage; drawn++ {
			s := series[idx]
			y := yTop - vg.Length(drawn)*summaryRowHeight - summaryRowHeight*0.65
			fillText(area, s.Label, vg.Points(9), area.Min.X, y, color.Black)
			fillText(area, formatShare(s.Latest()), vg.Points(9), area.Min.X+nameColWidth, y, color.Black)

			sparkX := area.Min.X + nameColWidth + valueColWidth
			sparkY := yTop - vg.Length(drawn)*summaryRowHeight - summaryRowHeight + vg.Points(2)
			sparkArea := draw.Canvas{
				Canvas: area.Canvas,
				Rectangle: vg.Rectangle{
					Min: vg.Point{X: sparkX, Y: sparkY},
					Max: vg.Point{X: sparkX + sparkColWidth, Y: sparkY + summaryRowHeight - vg.Points(3)},
				},
			}
			drawSparkline(sparkArea, s.Values, seriesColor(s, idx))
			idx++
		}
	}
}

func drawSparkline(c draw.Canvas, vals []float64, clr color.Color) {
	var pts plotter.XYs
	for i, v := range vals {
		if !math.IsNaN(v) {
			pts = append(pts, plotter.XY{X: float64(i), Y: v})
		}
	}
	if len(pts) < 2 {
		return
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.Transparent

	line, err := plotter.NewLine(pts)
	if err != nil {
		return
	}
	line.Color = clr
	line.Width = vg.Points(1.5)
	p.Add(line)

	p.X.Min = 0
	p.X.Max = float64(len(vals) - 1)
	minY, maxY := pts[0].Y, pts[0].Y
	for _, pt := range pts {
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	pad := (maxY - minY) * 0.1
	if pad == 0 {
		pad = 1
	}
	p.Y.Min = minY - pad
	p.Y.Max = maxY + pad

	p.Draw(c)
}

// seriesColor uses the party colour from the directory ("#RRGGBB") and
// falls back to the plotutil palette.
func seriesColor(s Series, i int) color.Color {
	if c, ok := parseHex(s.Color); ok {
		return c
	}
	return plotutil.Color(i)
}

func parseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func formatShare(v float64) string {
	if math.IsNaN(v) {
		return "- -"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

type yearTicks []int

func (yt yearTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(yt))
	for i, y := range yt {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: strconv.Itoa(y)})
	}
	return ticks
}

func fillText(c draw.Canvas, txt string, size vg.Length, x, y vg.Length, clr color.Color) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
	}
	sty.Font.Size = size
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}

func strokeHLine(c draw.Canvas, x0, x1, y vg.Length, clr color.Color) {
	c.StrokeLine2(draw.LineStyle{
		Color: clr,
		Width: vg.Points(0.5),
	}, x0, y, x1, y)
}
