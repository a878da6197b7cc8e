package output

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/altinkaya-opensource/odoo-addons/pkg/application/dto"
)

// GanttChart lays the operations of one explosion out back to back on an hour axis
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	TotalHours   float64
}

// GanttBar is one operation on the chart
type GanttBar struct {
	Workcenter string
	BOM        string
	Hours      float64
	Start      float64
	X          int
	Width      int
	Color      string
}

var barColors = []string{"#4CAF50", "#2196F3", "#FF9800", "#9C27B0", "#009688", "#795548"}

// NewGanttChart sizes a chart for the operations of result
func NewGanttChart(result *dto.ExplosionResult) *GanttChart {
	rows := len(workcenterRows(result.Operations))
	total, _ := result.OperationHours.Float64()

	rowHeight := 30
	return &GanttChart{
		Width:        1000,
		Height:       rows*rowHeight + 140,
		MarginLeft:   160,
		MarginTop:    60,
		MarginRight:  60,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		TotalHours:   total,
	}
}

// GenerateSVG renders the chart
func (gc *GanttChart) GenerateSVG(result *dto.ExplosionResult) string {
	if len(result.Operations) == 0 || gc.TotalHours <= 0 {
		return gc.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.wc-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.op-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.op-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Operations for %s x %s (%s h)</text>`,
		gc.Width/2, html.EscapeString(result.Product.DisplayName()), result.Quantity, result.OperationHours))

	rows := workcenterRows(result.Operations)
	bars := gc.createBars(result)

	gc.drawTimeAxis(&svg, len(rows))
	for i, wc := range rows {
		y := gc.MarginTop + i*gc.RowHeight
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="wc-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-15, y+gc.RowHeight/2+4, html.EscapeString(wc)))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+gc.RowHeight, gc.Width-gc.MarginRight, y+gc.RowHeight))
		for _, bar := range bars {
			if bar.Workcenter == wc {
				gc.drawBar(&svg, bar, y)
			}
		}
	}

	svg.WriteString(`</svg>`)
	return svg.String()
}

// createBars places operations one after another in routing order
func (gc *GanttChart) createBars(result *dto.ExplosionResult) []GanttBar {
	chartWidth := float64(gc.Width - gc.MarginLeft - gc.MarginRight)
	bomColors := make(map[string]string)

	var bars []GanttBar
	start := 0.0
	for _, op := range result.Operations {
		hours, _ := op.Hours.Float64()
		bom := op.BOM.DisplayName()
		color, ok := bomColors[bom]
		if !ok {
			color = barColors[len(bomColors)%len(barColors)]
			bomColors[bom] = color
		}

		width := int(hours / gc.TotalHours * chartWidth)
		if width < 2 {
			width = 2
		}
		bars = append(bars, GanttBar{
			Workcenter: op.Workcenter,
			BOM:        bom,
			Hours:      hours,
			Start:      start,
			X:          gc.MarginLeft + int(start/gc.TotalHours*chartWidth),
			Width:      width,
			Color:      color,
		})
		start += hours
	}
	return bars
}

func (gc *GanttChart) drawTimeAxis(svg *strings.Builder, numRows int) {
	chartWidth := float64(gc.Width - gc.MarginLeft - gc.MarginRight)
	axisY := gc.MarginTop + numRows*gc.RowHeight + 10

	step := math.Pow(10, math.Floor(math.Log10(gc.TotalHours)))
	if gc.TotalHours/step < 4 {
		step /= 2
	}
	for h := 0.0; h <= gc.TotalHours+1e-9; h += step {
		x := gc.MarginLeft + int(h/gc.TotalHours*chartWidth)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, gc.MarginTop, x, axisY))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%gh</text>`,
			x, axisY+15, math.Round(h*100)/100))
	}
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, axisY, gc.Width-gc.MarginRight, axisY))
}

func (gc *GanttChart) drawBar(svg *strings.Builder, bar GanttBar, rowY int) {
	barHeight := gc.RowHeight - 4
	barY := rowY + 2

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="op-bar">`,
		bar.X, barY, bar.Width, barHeight, bar.Color))
	svg.WriteString(fmt.Sprintf(`<title>%s: %s, %.2f h from %.2f h</title></rect>`,
		html.EscapeString(bar.Workcenter), html.EscapeString(bar.BOM), bar.Hours, bar.Start))

	if bar.Width > 40 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="op-text" text-anchor="middle">%.2f h</text>`,
			bar.X+bar.Width/2, barY+barHeight/2+3, bar.Hours))
	}
}

func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Workcenter Operations</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}

// workcenterRows lists workcenters in order of first use
func workcenterRows(ops []dto.Operation) []string {
	var rows []string
	seen := make(map[string]bool)
	for _, op := range ops {
		if !seen[op.Workcenter] {
			seen[op.Workcenter] = true
			rows = append(rows, op.Workcenter)
		}
	}
	return rows
}
