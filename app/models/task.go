package models

// MaxTitleLength is the longest title, in characters, any store accepts.
const MaxTitleLength = 255

// Task represents a single row of the tasks table.
type Task struct {
	ID        int64  `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Completed bool   `json:"completed" db:"completed"`
}

// ExportFormat names a document format the task list can be exported to.
type ExportFormat string

// Supported export formats.
const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
)

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv"
	case ExportPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}
