package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "review.md")

	err := WriteMarkdown("# Call Review\n", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Call Review\n", string(data))
}

func TestCleanupMarkdown(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(first, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("b"), 0o600))

	require.NoError(t, CleanupMarkdown(first, second))

	_, err := os.Stat(first)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(second)
	assert.True(t, os.IsNotExist(err))

	err = CleanupMarkdown(first)
	assert.ErrorContains(t, err, "failed to remove markdown file")
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "template.tex")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o600))

	require.NoError(t, validateFiles(present))

	err := validateFiles(present, filepath.Join(dir, "missing.cls"))
	assert.ErrorContains(t, err, "file not found")
}

func TestRenderPDFMissingInput(t *testing.T) {
	if err := checkPandocExists(context.Background()); err != nil {
		t.Skip("pandoc not installed")
	}

	dir := t.TempDir()
	err := RenderPDF(context.Background(), filepath.Join(dir, "absent.md"), filepath.Join(dir, "out.pdf"), PDFOptions{})
	assert.ErrorContains(t, err, "file not found")
}
