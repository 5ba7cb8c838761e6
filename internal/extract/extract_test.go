package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardioscan/heartrisk/constants"
	"github.com/cardioscan/heartrisk/internal/common"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
)

// stubRunner fakes the external binaries. pdftoppm writes page files under
// the prefix it is given, like the real tool does.
type stubRunner struct {
	pdftotextOut string
	pdftotextErr error
	tesseractOut string
	tesseractErr error
	ppmPages     int
	ppmErr       error

	calls []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	switch name {
	case "pdftotext":
		return []byte(s.pdftotextOut), nil, s.pdftotextErr
	case "pdftoppm":
		if s.ppmErr != nil {
			return nil, []byte("ppm failed"), s.ppmErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.ppmPages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), pngBytes, 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(s.tesseractOut), nil, s.tesseractErr
	}
	return nil, nil, fmt.Errorf("unexpected command %q", name)
}

func newTestExtractor(stub *stubRunner) *Extractor {
	e := NewExtractor(Config{MinTextChars: 10, MaxPages: 10}, nil)
	e.runner = stub
	return e
}

func TestExtract_PDFTextLayer(t *testing.T) {
	stub := &stubRunner{pdftotextOut: "Age: 54\nCholesterol: 210 mg/dL\n"}
	e := newTestExtractor(stub)

	res, err := e.Extract(context.Background(), pdfBytes, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, constants.PDF, res.Format)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, []string{"age", "cholesterol"}, res.Fields.FieldsSet())
	assert.InDelta(t, 2.0/15.0, res.Confidence, 1e-9)
	assert.Equal(t, []string{"pdftotext"}, stub.calls, "text layer sufficed, no OCR")
}

func TestExtract_PDFFallsBackToOCR(t *testing.T) {
	stub := &stubRunner{
		pdftotextOut: "x", // below threshold: treated as a scan
		ppmPages:     2,
		tesseractOut: "Age: 5O\nHeart Rate: 78 bpm\n",
	}
	e := newTestExtractor(stub)

	res, err := e.Extract(context.Background(), pdfBytes, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	require.NotNil(t, res.Fields.Age)
	assert.Equal(t, 50, *res.Fields.Age, "OCR digit confusion is repaired")
	assert.Equal(t, confRepaired, res.Fields.Provenance["age"].Confidence)
	require.NotNil(t, res.Fields.HeartRate)
	assert.Equal(t, 78, *res.Fields.HeartRate)
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, stub.calls)
}

func TestExtract_ImageOCR(t *testing.T) {
	stub := &stubRunner{tesseractOut: "Blood Pressure: 140/90\n"}
	e := newTestExtractor(stub)

	res, err := e.Extract(context.Background(), pngBytes, "image/png")
	require.NoError(t, err)

	assert.Equal(t, constants.IMAGE, res.Format)
	assert.Equal(t, "image-ocr", res.Method)
	require.NotNil(t, res.Fields.BloodPressure)
	assert.Equal(t, 140, *res.Fields.BloodPressure)
}

func TestExtract_UnreadableDocumentZeroConfidence(t *testing.T) {
	stub := &stubRunner{pdftotextOut: "", ppmPages: 1, tesseractOut: ""}
	e := newTestExtractor(stub)

	res, err := e.Extract(context.Background(), pdfBytes, "application/pdf")
	require.NoError(t, err, "an unreadable document is not an error")
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Fields.FieldsSet())
}

func TestExtract_ToolFailure(t *testing.T) {
	stub := &stubRunner{pdftotextErr: fmt.Errorf("exit status 1")}
	e := newTestExtractor(stub)

	_, err := e.Extract(context.Background(), pdfBytes, "application/pdf")
	require.Error(t, err)
	assert.Equal(t, common.CodeExtraction, common.Kind(err))
}

func TestExtract_CanceledContext(t *testing.T) {
	e := newTestExtractor(&stubRunner{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, pdfBytes, "application/pdf")
	require.Error(t, err)
	assert.Equal(t, common.CodeTimeout, common.Kind(err))
}

func TestExtract_MaxPagesCap(t *testing.T) {
	stub := &stubRunner{pdftotextOut: "", ppmPages: 5, tesseractOut: "Age: 54\n"}
	e := NewExtractor(Config{MinTextChars: 10, MaxPages: 2}, nil)
	e.runner = stub

	res, err := e.Extract(context.Background(), pdfBytes, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
}

func TestSniffFormat(t *testing.T) {
	format, err := sniffFormat(pdfBytes, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, format)

	format, err = sniffFormat(pngBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, format)

	_, err = sniffFormat(nil, "application/pdf")
	require.Error(t, err)
	assert.Equal(t, common.CodeUnsupportedFormat, common.Kind(err))

	// plain text is not a supported document type
	_, err = sniffFormat([]byte("hello world"), "application/pdf")
	require.Error(t, err)
	assert.Equal(t, common.CodeUnsupportedFormat, common.Kind(err))

	// declared type must agree with the actual signature
	_, err = sniffFormat(pdfBytes, "image/png")
	require.Error(t, err)
	assert.Equal(t, common.CodeUnsupportedFormat, common.Kind(err))

	_, err = sniffFormat(pngBytes, "text/plain")
	require.Error(t, err)
}

func TestWriteTemp(t *testing.T) {
	path, cleanup, err := writeTemp(pdfBytes, constants.PDF)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, ".pdf", filepath.Ext(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, b)

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
