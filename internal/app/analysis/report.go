package analysis

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/pkg/errors"
)

const (
	// ReportHeader prefixes the downloadable copy of a report.
	ReportHeader = "CFD Pressure Map Analysis Report\n\n"
	// ReportFilename is the suggested name of the downloaded report.
	ReportFilename = "pressure-analysis-report.txt"
)

//go:embed report.tmpl
var reportSource string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"kpa": func(v float64) string { return fmt.Sprintf("%.2f", v*kPaScale) },
}).Parse(reportSource))

// Report renders the analysis text shown to the user.
func Report(s Stats) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, s); err != nil {
		return "", errors.Wrap(err, "rendering report")
	}
	return buf.String(), nil
}

// DownloadReport is the file body offered for download.
func DownloadReport(report string) []byte {
	return []byte(ReportHeader + report)
}
