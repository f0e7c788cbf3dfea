package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tasktracker/app/models"

	"github.com/jung-kurt/gofpdf"
)

// Exporter renders the task list as a downloadable document.
type Exporter struct {
	tasks *TaskService
}

// NewExporter creates an Exporter reading from the given service.
func NewExporter(tasks *TaskService) *Exporter {
	return &Exporter{tasks: tasks}
}

// ParseExportFormat validates a format name. An empty name means json.
func ParseExportFormat(name string) (models.ExportFormat, error) {
	switch f := models.ExportFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return models.ExportJSON, nil
	case models.ExportJSON, models.ExportCSV, models.ExportPDF:
		return f, nil
	default:
		return "", models.Invalidf("unknown export format %q", name)
	}
}

// Export renders every task in the requested format.
func (e *Exporter) Export(ctx context.Context, format models.ExportFormat) ([]byte, error) {
	tasks, err := e.tasks.GetTasks(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case models.ExportJSON:
		return json.MarshalIndent(tasks, "", "  ")
	case models.ExportCSV:
		return exportCSV(tasks)
	case models.ExportPDF:
		return exportPDF(tasks)
	default:
		return nil, models.Invalidf("unknown export format %q", format)
	}
}

func exportCSV(tasks []models.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "title", "completed"})
	for _, t := range tasks {
		_ = w.Write([]string{strconv.FormatInt(t.ID, 10), t.Title, strconv.FormatBool(t.Completed)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return b.Bytes(), nil
}

func exportPDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)

	done := 0
	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
			done++
		}
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s #%d %s", mark, t.ID, t.Title)), "0", "L", false)
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d of %d completed", done, len(tasks)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
