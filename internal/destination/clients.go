package destination

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const httpTimeout = 10 * time.Second

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// doGet performs a GET request and decodes the JSON response into dst.
func doGet(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

// ---- HTTP ----

// HTTPSource fetches a dataset document from a URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource constructs an HTTPSource for the given URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{url: url, client: newHTTPClient()}
}

// Name returns the source URL.
func (s *HTTPSource) Name() string { return s.url }

// Fetch retrieves and decodes the document.
func (s *HTTPSource) Fetch(ctx context.Context) (*Document, error) {
	var doc Document
	if err := doGet(ctx, s.client, s.url, &doc); err != nil {
		return nil, fmt.Errorf("fetching dataset %s: %w", s.url, err)
	}
	return &doc, nil
}

// ---- local file ----

// FileSource reads a dataset document from disk.
type FileSource struct {
	path string
}

// NewFileSource constructs a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.path }

// Fetch reads and decodes the file. The context is only checked up front.
func (s *FileSource) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", s.path, err)
	}

	return DecodeDocument(b)
}

// DecodeDocument parses a dataset document.
func DecodeDocument(b []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding dataset document: %w", err)
	}
	return &doc, nil
}
