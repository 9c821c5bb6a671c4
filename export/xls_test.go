package export

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/eyalbz/leadform/model"
)

var exportQuestions = []model.Question{
	{ID: "q1", Label: "Name?", Type: model.TypeText},
	{ID: "q2", Label: "Extras", Type: model.TypeCheckbox},
}

func exportLeads() []model.Lead {
	return []model.Lead{
		{
			ID:      "r1",
			Time:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Contact: model.Contact{Name: "Dana", Email: "d@example.com", Phone: "+972501234567"},
			Lang:    model.LangHebrew,
			Channel: model.ChannelWhatsApp,
			Answers: model.AnswerMap{
				"q1": {Value: "hello\tworld\nsecond line"},
				"q2": {Multi: true, Values: []string{"X", "Y"}},
			},
		},
	}
}

func decodeUTF16LE(t *testing.T, raw []byte) string {
	t.Helper()
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), dec))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return string(decoded)
}

func TestLeadsXLSStartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	if err := LeadsXLS(&buf, exportQuestions, exportLeads()); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	if len(raw) < 2 || raw[0] != 0xFF || raw[1] != 0xFE {
		t.Errorf("output should start with a UTF-16LE BOM, got % x", raw[:2])
	}
}

func TestLeadsXLSContent(t *testing.T) {
	var buf bytes.Buffer
	if err := LeadsXLS(&buf, exportQuestions, exportLeads()); err != nil {
		t.Fatal(err)
	}
	text := decodeUTF16LE(t, buf.Bytes())

	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + one lead", len(lines))
	}

	header := strings.Split(lines[0], "\t")
	want := []string{"Date", "Name", "Email", "Phone", "Channel", "Language", "Name?", "Extras"}
	if len(header) != len(want) {
		t.Fatalf("header = %v", header)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	row := strings.Split(lines[1], "\t")
	if len(row) != len(header) {
		t.Fatalf("row has %d cells, header has %d", len(row), len(header))
	}
	if row[1] != "Dana" || row[2] != "d@example.com" {
		t.Errorf("contact cells = %v", row[1:3])
	}
	if row[6] != "hello world second line" {
		t.Errorf("tab/newline sanitization failed: %q", row[6])
	}
	if row[7] != "X, Y" {
		t.Errorf("multi answer cell = %q", row[7])
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("Spring Intake"); got != "Spring Intake.xls" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename("  "); got != "leads.xls" {
		t.Errorf("empty title Filename = %q", got)
	}
	if got := Filename("a\tb"); got != "a b.xls" {
		t.Errorf("tab in title Filename = %q", got)
	}
}
