// Package pdfextract turns uploaded PDF documents into plain text ready for
// word-window chunking.
package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxSize bounds how much of an uploaded document is read.
const MaxSize = 10 << 20 // 10 MB

var ErrTooLarge = errors.New("pdf exceeds size limit")

// Text extracts the plain text of the PDF in r and normalizes its whitespace
// so the result chunks cleanly by words. A PDF with no extractable text
// yields an empty string and no error; input larger than MaxSize fails with
// ErrTooLarge.
func Text(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if len(b) > MaxSize {
		return "", ErrTooLarge
	}
	if len(b) == 0 {
		return "", nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.Join(strings.Fields(string(out)), " "), nil
}
