package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"travella/internal/model"
)

// RenderPDF lays plan out as an A4 document and returns the raw bytes
func RenderPDF(plan *model.Plan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(plan.Title, true)
	pdf.AddPage()

	// Core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header bar
	pdf.SetFillColor(150, 30, 45)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, tr(plan.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Travella trip plan", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(30, 45, 80)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(45, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(125, 7, tr(value), "", 1, "L", false, 0, "")
	}

	bullets := func(items []string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		for _, item := range items {
			pdf.MultiCell(170, 5, tr("- "+item), "", "L", false)
		}
	}

	sectionHeader("Overview")
	row("Destination", displayName(plan.City))
	row("Duration", fmt.Sprintf("%d days", plan.Days))
	row("Travelers", fmt.Sprintf("%d", plan.Pax))
	row("Budget", plan.Budget)
	if plan.Profile != nil && *plan.Profile != "" {
		row("Profile", *plan.Profile)
	}
	if plan.Cost != "" {
		row("Cost per day", plan.Cost)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(170, 5, tr(plan.Summary), "", "L", false)
	pdf.Ln(4)

	for _, day := range plan.Detail {
		sectionHeader(fmt.Sprintf("Day %d", day.Day))
		if len(day.Activities) == 0 {
			bullets([]string{"Free day to explore at your own pace"})
		} else {
			bullets(day.Activities)
		}
		if len(day.Food) > 0 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(170, 6, tr("Eat: "+strings.Join(day.Food, ", ")), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	if len(plan.Tips) > 0 {
		sectionHeader("Tips")
		bullets(plan.Tips)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}
