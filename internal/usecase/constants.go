package usecase

import "time"

const (
	// DefaultExportTTL is how long a prepared spreadsheet stays downloadable.
	DefaultExportTTL = 30 * time.Minute

	// ExportFilename is the name offered to the browser for downloads.
	ExportFilename = "resultado_filtrado.xlsx"

	// ExportContentType is the MIME type of generated spreadsheets.
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
