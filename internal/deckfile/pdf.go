package deckfile

import (
	"fmt"
	"path/filepath"

	"github.com/mandolyte/mdtopdf"
)

// WritePDF renders markdown content as a PDF at pdfPath and returns the
// absolute path of the written file.
func WritePDF(markdown []byte, pdfPath string) (string, error) {
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
