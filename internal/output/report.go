package output

import (
	"fmt"
	"io"
	"os"

	"github.com/rpgo/rental-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport renders the report in the named format and writes it to a
// timestamped file in dir. "all" writes the detailed console report plus the
// yearly CSV. Returns the written file names.
func GenerateReport(report *domain.AnalysisReport, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, name := range []string{"console", "yearly-csv"} {
			f, _ := Lookup(name)
			file, err := WriteFormatted(f, report, dir, Extension(name))
			if err != nil {
				return files, err
			}
			files = append(files, file)
		}
		return files, nil
	}

	f, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	file, err := WriteFormatted(f, report, dir, Extension(format))
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}

// Render writes the formatted report to w
func Render(w io.Writer, report *domain.AnalysisReport, format string) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// SaveConfiguration writes a configuration as YAML
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
