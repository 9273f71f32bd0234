package exporter

import (
	"strings"

	"inspequte/internal/exporter/html"
)

// GetExporters returns one Exporter per requested format. Unknown
// format strings are silently ignored. sarif (the base report) is not
// built here: the caller writes it directly, and only when formats is
// empty or lists "sarif".
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true

		switch f {
		case "excel", "xlsx":
			exporters = append(exporters, NewExcelExporter())
		case "html":
			exporters = append(exporters, html.NewHTMLExporter())
		}
	}

	return exporters
}
