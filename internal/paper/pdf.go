package paper

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText extracts plain text from a PDF, one "[PAGE n]" marker per
// page. Pages that fail text extraction are skipped; a PDF that yields no
// text at all is an error.
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "[PAGE %d]\n%s\n\n", i, text)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return sb.String(), nil
}
