package report

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// PDFOptions selects the pandoc template. Both paths are optional; without a
// template pandoc's default LaTeX template is used.
type PDFOptions struct {
	TemplatePath string
	ClassPath    string
}

// RenderPDF converts a markdown report to PDF with pandoc.
func RenderPDF(ctx context.Context, markdownPath, outputPath string, opts PDFOptions) (err error) {
	err = checkPandocExists(ctx)
	if err != nil {
		return err
	}

	required := []string{markdownPath}
	if opts.TemplatePath != "" {
		required = append(required, opts.TemplatePath)
	}
	if opts.ClassPath != "" {
		required = append(required, opts.ClassPath)
	}
	err = validateFiles(required...)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	args := []string{"-f", "markdown", "-t", "pdf", "-o", outputPath}
	if opts.TemplatePath != "" {
		args = append(args, "--template", opts.TemplatePath)
	}
	args = append(args, markdownPath)

	cmd := exec.CommandContext(ctx, "pandoc", args...)

	// TEXINPUTS lets LaTeX find a custom document class next to the template.
	if opts.ClassPath != "" {
		texinputs := filepath.Dir(opts.ClassPath) + ":" + os.Getenv("TEXINPUTS")
		cmd.Env = append(os.Environ(), "TEXINPUTS="+texinputs)
	}

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return err
	}

	return err
}

func checkPandocExists(ctx context.Context) (err error) {
	err = exec.CommandContext(ctx, "pandoc", "--version").Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate PDFs)")
		return err
	}
	return err
}

func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteMarkdown writes a report to disk, creating its directory.
func WriteMarkdown(content, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
		return err
	}

	return err
}

// CleanupMarkdown removes intermediate markdown files after PDF generation.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}

// WritePDF writes the record's report next to outputPath and converts it.
// The intermediate markdown is removed unless keepMarkdown is set.
func WritePDF(ctx context.Context, md, outputPath string, opts PDFOptions, keepMarkdown bool) (err error) {
	mdPath := outputPath[:len(outputPath)-len(filepath.Ext(outputPath))] + ".md"

	err = WriteMarkdown(md, mdPath)
	if err != nil {
		return err
	}

	err = RenderPDF(ctx, mdPath, outputPath, opts)
	if err != nil {
		return err
	}

	if !keepMarkdown {
		err = CleanupMarkdown(mdPath)
	}
	return err
}
