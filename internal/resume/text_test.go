package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"jobbyResume/internal/errcode"
)

func TestExtractTextPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.TXT")
	require.NoError(t, os.WriteFile(path, []byte("  Ann Rossi\nGo developer \n"), 0o600))

	text, err := ExtractText(path)
	require.NoError(t, err)
	require.Equal(t, "Ann Rossi\nGo developer", text)
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText("/tmp/cv.png")
	require.Error(t, err)
	require.Equal(t, errcode.KindUnsupportedFile, errcode.KindOf(err))
}

func TestExtractTextEmptyPath(t *testing.T) {
	_, err := ExtractText(" ")
	require.Equal(t, errcode.KindInvalidInput, errcode.KindOf(err))
}

func TestNewScannerWithoutAddress(t *testing.T) {
	s := NewScanner("")
	require.IsType(t, NopScanner{}, s)
	require.NoError(t, s.ScanFile("/does/not/matter"))
}

func TestNormalizeFillsEmptyLists(t *testing.T) {
	d := &Data{Name: "Ann"}
	d.Normalize()
	require.NotNil(t, d.Skills)
	require.NotNil(t, d.Experience)
	require.NotNil(t, d.Tags)
	require.Empty(t, d.Education)
}
