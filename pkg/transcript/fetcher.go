// Package transcript loads call transcripts from disk or a URL and splits
// them into speaker turns.
package transcript

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// DefaultTimeout bounds a URL fetch made through Fetch.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a remote transcript is read.
const maxBodyBytes = 10 << 20

// Fetch retrieves a transcript from a file or URL.
func Fetch(input string) (content string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves a transcript from a file or URL. HTML pages are
// reduced to their text, one block element per line.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch transcript from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch transcript from file: %s", input)
		return content, err
	}

	return content, err
}

func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = string(data)
	if looksLikeHTML(content) {
		content, err = htmlToText(content)
		if err != nil {
			return content, err
		}
	}

	if strings.TrimSpace(content) == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "closepro/1.0")

	client := &http.Client{
		Timeout: DefaultTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	var bodyBytes []byte
	bodyBytes, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return content, err
	}

	content = string(bodyBytes)
	if strings.Contains(resp.Header.Get("Content-Type"), "html") || looksLikeHTML(content) {
		content, err = htmlToText(content)
		if err != nil {
			return content, err
		}
	}

	if strings.TrimSpace(content) == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

func looksLikeHTML(content string) (ok bool) {
	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	ok = strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") || strings.Contains(head, "<body")
	return ok
}

// htmlToText keeps one line per block element so "Speaker: text" lines
// survive the conversion.
func htmlToText(html string) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()
	doc.Find("br").ReplaceWithHtml("\n")

	const blocks = "p, li, tr, h1, h2, h3, h4, h5, h6, pre"

	lines := make([]string, 0)
	doc.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blocks).Length() > 0 {
			return
		}
		for _, line := range strings.Split(s.Text(), "\n") {
			if line = collapseSpaces(line); line != "" {
				lines = append(lines, line)
			}
		}
	})

	if len(lines) == 0 {
		for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
			if line = collapseSpaces(line); line != "" {
				lines = append(lines, line)
			}
		}
	}

	text = strings.Join(lines, "\n")
	return text, err
}

func collapseSpaces(s string) (collapsed string) {
	collapsed = strings.Join(strings.Fields(s), " ")
	return collapsed
}
