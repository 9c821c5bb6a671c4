// Package export emits lead exports in the tab-separated flavor spreadsheet
// tools open without an import dialog: UTF-16LE with a byte-order mark and a
// .xls extension, so encoding is auto-detected and Hebrew text survives.
package export

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/eyalbz/leadform/model"
)

// Filename returns the download filename for a questionnaire export.
func Filename(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "leads"
	}
	return sanitizeCell(name) + ".xls"
}

// LeadsXLS writes leads as UTF-16LE TSV: a fixed contact/attribution header
// followed by one column per question in questionnaire order. Cell values are
// tab/newline-sanitized so row and column boundaries stay intact.
func LeadsXLS(w io.Writer, questions []model.Question, leads []model.Lead) error {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out := transform.NewWriter(w, enc)

	header := []string{"Date", "Name", "Email", "Phone", "Channel", "Language"}
	for _, q := range questions {
		header = append(header, q.Label)
	}
	if err := writeRow(out, header); err != nil {
		return err
	}

	for _, lead := range leads {
		row := []string{
			lead.Time.Format(time.RFC3339),
			lead.Contact.Name,
			lead.Contact.Email,
			lead.Contact.Phone,
			string(lead.Channel),
			string(lead.Lang),
		}
		for _, q := range questions {
			row = append(row, cellValue(lead.Answers[q.ID]))
		}
		if err := writeRow(out, row); err != nil {
			return err
		}
	}

	return out.Close()
}

func writeRow(w io.Writer, cells []string) error {
	for i, c := range cells {
		cells[i] = sanitizeCell(c)
	}
	_, err := io.WriteString(w, strings.Join(cells, "\t")+"\r\n")
	return err
}

// sanitizeCell replaces the characters that would break TSV structure.
func sanitizeCell(s string) string {
	return strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func cellValue(a model.Answer) string {
	if a.Multi {
		return strings.Join(a.Values, ", ")
	}
	return a.Value
}
