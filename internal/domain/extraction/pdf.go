package extraction

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

const (
	maxTextBytes     = 100 * 1024
	scannedThreshold = 50 // chars per page below which a PDF is treated as scanned
	renderQuality    = 85
)

// PDFText is the text layer of a PDF.
type PDFText struct {
	Text    string
	Lines   []string
	Pages   int
	HasText bool
}

// ReadPDFText extracts the text layer. The pdf library panics on some
// malformed inputs; those are returned as errors.
func ReadPDFText(data []byte) (res PDFText, err error) {
	res.Pages = 1
	defer func() {
		if r := recover(); r != nil {
			res = PDFText{Pages: 1}
			err = fmt.Errorf("panic while reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return res, fmt.Errorf("open PDF reader: %w", err)
	}
	if n := reader.NumPage(); n > 1 {
		res.Pages = n
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return res, fmt.Errorf("extract plain text: %w", err)
	}
	raw, err := io.ReadAll(io.LimitReader(plain, maxTextBytes))
	if err != nil {
		return res, fmt.Errorf("read plain text: %w", err)
	}

	res.Text = string(raw)
	for _, line := range strings.Split(res.Text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			res.Lines = append(res.Lines, trimmed)
		}
	}
	res.HasText = len(strings.TrimSpace(res.Text))/res.Pages >= scannedThreshold
	return res, nil
}

// RenderFirstPage rasterizes page one of a PDF to JPEG.
func RenderFirstPage(data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while rendering PDF: %v", r)
		}
	}()

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open PDF for rendering: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: renderQuality}); err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	return buf.Bytes(), nil
}
