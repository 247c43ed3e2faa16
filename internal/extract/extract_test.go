package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	docx := `<w:document><w:body><w:p><w:r><w:t>Day 1: Rome &amp; Vatican</w:t></w:r></w:p><w:p><w:r><w:t>Day 2:</w:t><w:tab/><w:t>Florence</w:t></w:r></w:p></w:body></w:document>`

	tests := []struct {
		name        string
		contentType string
		data        []byte
		want        string
		wantErr     error
	}{
		{
			name:        "plain text",
			contentType: "text/plain; charset=utf-8",
			data:        []byte("Line one\r\n\r\n\r\nLine two  \n"),
			want:        "Line one\n\nLine two",
		},
		{
			name:        "html drops scripts and keeps blocks",
			contentType: TypeHTML,
			data:        []byte(`<html><head><title>Trip</title><script>alert(1)</script><style>p{}</style></head><body><h1>Itinerary</h1><p>Day <b>1</b>: Paris</p><ul><li>Louvre</li><li>Eiffel</li></ul></body></html>`),
			want:        "Trip\nItinerary\nDay 1: Paris\nLouvre\nEiffel",
		},
		{
			name:        "docx paragraphs",
			contentType: TypeDOCX,
			data:        buildDOCX(t, docx),
			want:        "Day 1: Rome & Vatican\nDay 2:\tFlorence",
		},
		{
			name:        "legacy doc keeps printable runs",
			contentType: TypeDOC,
			data:        []byte("\x00\x01Hotel Roma\x00\x02\rCheck-in 14:00\x7f"),
			want:        "Hotel Roma\nCheck-in 14:00",
		},
		{
			name:        "unsupported",
			contentType: "image/png",
			data:        []byte{0x89, 'P', 'N', 'G'},
			wantErr:     ErrUnsupportedType,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(tt.contentType, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractUnsupportedMessage(t *testing.T) {
	_, err := New().Extract("application/zip", nil)
	if err == nil || !strings.Contains(err.Error(), "application/zip") {
		t.Errorf("expected error naming the type, got %v", err)
	}
}

func TestExtractBrokenDocuments(t *testing.T) {
	e := New()
	if _, err := e.Extract(TypePDF, []byte("not a pdf")); err == nil {
		t.Error("expected error for invalid pdf")
	}
	if _, err := e.Extract(TypeDOCX, []byte("not a zip")); err == nil {
		t.Error("expected error for invalid docx")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("other.xml")
	_ = zw.Close()
	if _, err := e.Extract(TypeDOCX, buf.Bytes()); err == nil {
		t.Error("expected error for docx without document.xml")
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		want     string
	}{
		{"declared wins", "notes.txt", "application/pdf", []byte("hello"), TypePDF},
		{"declared params stripped", "a.html", "text/html; charset=utf-8", []byte("<p>x</p>"), TypeHTML},
		{"sniff html", "page", "", []byte("<!DOCTYPE html><html><body>hi</body></html>"), TypeHTML},
		{"sniff pdf behind octet-stream", "file.bin", "application/octet-stream", []byte("%PDF-1.4\n%âãÏÓ\n"), TypePDF},
		{"extension fallback for doc", "old.doc", "", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, TypeDOC},
		{"unknown stays octet-stream", "blob", "", []byte{0x00, 0x01, 0x02, 0x03}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectType(tt.filename, tt.declared, tt.data); got != tt.want {
				t.Errorf("DetectType(%q, %q) = %q, want %q", tt.filename, tt.declared, got, tt.want)
			}
		})
	}
}
