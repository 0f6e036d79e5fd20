// Package fetch downloads paper PDFs from common repositories.
//
// URLs from arXiv and OpenReview are normalized to direct PDF links
// before download. Downloads are retried with exponential backoff and
// validated against the %PDF signature; everything here runs before the
// core ever sees raw bytes.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single download attempt
	DefaultTimeout = 30 * time.Second

	// userAgent avoids blanket blocks on default Go client strings
	userAgent = "paperpack/1.0 (+https://github.com/paperpack/paperpack)"
)

// ErrNotPDF is returned when the downloaded content is not a PDF.
var ErrNotPDF = errors.New("downloaded content is not a valid PDF")

var (
	arxivRe      = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d+\.\d+)(?:v\d+)?(?:\.pdf)?`)
	openReviewRe = regexp.MustCompile(`openreview\.net/pdf\?id=(\w+)`)
)

// NormalizeURL converts a paper URL into a direct PDF download link.
// arXiv abs/pdf pages become canonical pdf links; OpenReview links are
// already direct; anything else is assumed to be a direct PDF URL.
func NormalizeURL(rawURL string) string {
	url := strings.TrimSpace(rawURL)
	if m := arxivRe.FindStringSubmatch(url); m != nil {
		return fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", m[1])
	}
	return url
}

// FilenameFromURL derives a stable local filename for a paper URL.
func FilenameFromURL(rawURL string) string {
	if m := arxivRe.FindStringSubmatch(rawURL); m != nil {
		return fmt.Sprintf("arxiv_%s.pdf", m[1])
	}
	if m := openReviewRe.FindStringSubmatch(rawURL); m != nil {
		return fmt.Sprintf("openreview_%s.pdf", m[1])
	}

	path := strings.SplitN(rawURL, "?", 2)[0]
	base := path[strings.LastIndex(path, "/")+1:]
	if base == "" {
		return "paper.pdf"
	}
	if !strings.HasSuffix(base, ".pdf") {
		base += ".pdf"
	}
	return base
}

// Fetcher downloads PDFs with bounded retries.
type Fetcher struct {
	client *http.Client
	retry  RetryConfig
}

// New creates a Fetcher with default timeout and retry policy.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: DefaultTimeout},
		retry:  DefaultRetryConfig(),
	}
}

// NewWithConfig creates a Fetcher with an explicit client and retry policy.
func NewWithConfig(client *http.Client, retry RetryConfig) *Fetcher {
	return &Fetcher{client: client, retry: retry}
}

// Download fetches the paper at rawURL into outDir and returns the local
// path. The URL is normalized first; the payload must carry the %PDF
// signature.
func (f *Fetcher) Download(ctx context.Context, rawURL, outDir string) (string, error) {
	url := NormalizeURL(rawURL)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	content, err := retryWithBackoff(ctx, f.retry, func() ([]byte, error) {
		return f.fetchOnce(ctx, url)
	})
	if err != nil {
		return "", fmt.Errorf("download failed for %s: %w", url, err)
	}

	outPath := filepath.Join(outDir, FilenameFromURL(url))
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return outPath, nil
}

// fetchOnce performs a single download attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		return nil, ErrNotPDF
	}
	return content, nil
}
