package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	TypeText = "text/plain"
	TypeHTML = "text/html"
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeDOC  = "application/msword"

	typeOctetStream = "application/octet-stream"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// SupportedExtensions lists the file extensions the UI accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".txt", ".html", ".htm"}

var extensionTypes = map[string]string{
	".txt":  TypeText,
	".html": TypeHTML,
	".htm":  TypeHTML,
	".pdf":  TypePDF,
	".docx": TypeDOCX,
	".doc":  TypeDOC,
}

func supported(t string) bool {
	switch t {
	case TypeText, TypeHTML, TypePDF, TypeDOCX, TypeDOC:
		return true
	}
	return false
}

// DetectType resolves the media type of an upload. A declared type wins
// unless it is empty or application/octet-stream, in which case the content
// is sniffed and the extension is the last resort.
func DetectType(filename, declared string, data []byte) string {
	if t := baseType(declared); t != "" && t != typeOctetStream {
		return t
	}
	if sniffed := baseType(mimetype.Detect(data).String()); supported(sniffed) {
		return sniffed
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	if declared == "" {
		return typeOctetStream
	}
	return baseType(declared)
}

func baseType(contentType string) string {
	if contentType == "" {
		return ""
	}
	t, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return t
}

// Extractor turns uploaded documents into plain text. It never touches disk.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of data interpreted as contentType.
func (e *Extractor) Extract(contentType string, data []byte) (string, error) {
	switch baseType(contentType) {
	case TypeText:
		return normalizeExtractedText(toValidUTF8(data)), nil
	case TypeHTML:
		return extractHTML(data)
	case TypePDF:
		return extractPDF(data)
	case TypeDOCX:
		return extractDOCX(data)
	case TypeDOC:
		return extractDOC(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
}

func toValidUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockElements).AppendHtml("\n")
	return normalizeExtractedText(doc.Text()), nil
}

const blockElements = "title, p, div, li, tr, td, th, pre, blockquote, section, article, header, footer, h1, h2, h3, h4, h5, h6"

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return normalizeExtractedText(b.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		documentXML, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		return normalizeExtractedText(stripDOCXML(documentXML)), nil
	}
	return "", fmt.Errorf("docx document.xml not found")
}

// extractDOC keeps the printable runs of a legacy Word file.
func extractDOC(data []byte) string {
	s := strings.Map(func(r rune) rune {
		if r == utf8.RuneError {
			return -1
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' {
			return '\n'
		}
		return ' '
	}, string(data))
	return normalizeExtractedText(s)
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

var spaceRunPattern = regexp.MustCompile(`[ \t]{2,}`)

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	emptyCount := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(spaceRunPattern.ReplaceAllString(line, " "))
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String())
}
