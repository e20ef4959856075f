// Package converter uploads 3D model files to the remote conversion service.
package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-research-cli/internal/fetcher"
)

// AllowedExtension is the only file type the service converts.
const AllowedExtension = ".skp"

const genericFailure = "file conversion failed on the server"

// ErrUnsupportedFile is returned before any network call for non-.skp files.
var ErrUnsupportedFile = eris.New("converter: only .skp files are allowed")

// ConvertResponse is the service's JSON answer.
type ConvertResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ConversionError carries the server-reported reason a conversion was
// rejected.
type ConversionError struct {
	Message string
}

func (e *ConversionError) Error() string {
	return "converter: " + e.Message
}

// Client uploads files for conversion.
type Client interface {
	// Convert uploads the content of r as filename and returns the accepted
	// response. It fails with ErrUnsupportedFile before sending anything when
	// filename is not a .skp file.
	Convert(ctx context.Context, filename string, r io.Reader) (*ConvertResponse, error)
}

// ValidateFilename checks the extension case-insensitively.
func ValidateFilename(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), AllowedExtension) {
		return ErrUnsupportedFile
	}
	return nil
}

// Option configures the converter client.
type Option func(*httpClient)

// WithFetcher sets the HTTP wrapper used for uploads.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *httpClient) {
		c.fetcher = f
	}
}

type httpClient struct {
	url     string
	fetcher fetcher.Fetcher
}

// NewClient creates a converter client posting to url.
func NewClient(url string, opts ...Option) Client {
	c := &httpClient{url: url}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	}
	return c
}

func (c *httpClient) Convert(ctx context.Context, filename string, r io.Reader) (*ConvertResponse, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, eris.Wrap(err, "converter: create form file")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, eris.Wrap(err, "converter: write file")
	}
	if err := writer.Close(); err != nil {
		return nil, eris.Wrap(err, "converter: close writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return nil, eris.Wrap(err, "converter: build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	zap.L().Debug("converter: uploading",
		zap.String("file", filepath.Base(filename)),
		zap.Int("bytes", buf.Len()),
	)

	resp, err := c.fetcher.Do(ctx, req)
	if err != nil {
		// The service reports failures as JSON even on error statuses.
		var se *fetcher.StatusError
		if errors.As(err, &se) {
			var body ConvertResponse
			if json.Unmarshal([]byte(se.Body), &body) == nil && body.Error != "" {
				return nil, &ConversionError{Message: body.Error}
			}
		}
		return nil, eris.Wrap(err, "converter: upload")
	}
	defer resp.Body.Close() //nolint:errcheck

	var result ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, eris.Wrap(err, "converter: decode response")
	}

	if !result.Success || result.DownloadURL == "" {
		msg := result.Error
		if msg == "" {
			msg = genericFailure
		}
		return nil, &ConversionError{Message: msg}
	}

	return &result, nil
}

// ConvertFile validates and uploads the file at path.
func ConvertFile(ctx context.Context, c Client, path string) (*ConvertResponse, error) {
	if err := ValidateFilename(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "converter: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return c.Convert(ctx, path, f)
}
