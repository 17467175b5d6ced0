package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"jatrack/internal/model"
)

func sampleRows() []model.Application {
	return []model.Application{
		{ID: 1, Company: "Acme, Inc", RoleTitle: "Engineer", Status: model.StatusApplied, AppliedDate: "2025-03-01"},
		{ID: 2, Company: `Say "hi"`, RoleTitle: "Dev", Status: model.StatusOffer, Notes: "line one\nline two"},
	}
}

func TestWriteCSV_EscapingAndLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows(), Columns()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatalf("missing BOM")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(strings.TrimPrefix(lines[0], "\uFEFF"), "ID,Company,Role Title,Status") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Acme, Inc"`) {
		t.Fatalf("comma cell not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[2], `"Say ""hi"""`) {
		t.Fatalf("quote cell not doubled: %q", lines[2])
	}
	if strings.Contains(lines[2], "\n") {
		t.Fatalf("newline survived into a row: %q", lines[2])
	}
	if !strings.Contains(lines[2], "line one line two") {
		t.Fatalf("notes not flattened: %q", lines[2])
	}
}

func TestWriteCSV_EmptyRowsStillEmitsHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, Columns()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestBuildPDF_ProducesDocument(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := BuildPDF(sampleRows(), Columns(), "Applications", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if len(data) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(data))
	}
}
