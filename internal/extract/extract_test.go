package extract

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textlessPDF builds a minimal single-page PDF whose content stream is
// empty. Cross-reference offsets are computed while writing so the file
// is structurally valid.
func textlessPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>\nendobj\n",
		"4 0 obj\n<< /Length 0 >>\nstream\nendstream\nendobj\n",
	}
	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	xrefPos := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objects)+1))
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos))
	return buf.Bytes()
}

func TestExtractPlainTextVerbatim(t *testing.T) {
	t.Parallel()

	text, err := Extract([]byte("hello world"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractPlainTextWithCharsetParameter(t *testing.T) {
	t.Parallel()

	text, err := Extract([]byte("hello"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractUnsupportedTypeReturnsSentinel(t *testing.T) {
	t.Parallel()

	for _, mediaType := range []string{"image/png", "application/zip", "", "audio/ogg"} {
		text, err := Extract([]byte{0x00, 0x01}, mediaType)
		require.NoError(t, err)
		assert.Equal(t, UnsupportedFormatNotice, text)
	}
}

func TestExtractWhitespaceOnlyReturnsSentinel(t *testing.T) {
	t.Parallel()

	text, err := Extract([]byte("  \n\t  "), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, NoReadableTextNotice, text)
}

func TestExtractTextlessPDFReturnsSentinel(t *testing.T) {
	t.Parallel()

	text, err := Extract(textlessPDF(), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, NoReadableTextNotice, text)
}

func TestExtractMalformedPDFIsAnError(t *testing.T) {
	t.Parallel()

	_, err := Extract([]byte("this is not a pdf"), "application/pdf")
	assert.Error(t, err)
}

func TestExtractMalformedDocxIsAnError(t *testing.T) {
	t.Parallel()

	_, err := Extract([]byte("this is not a zip archive"), mimeDocx)
	assert.Error(t, err)
}
