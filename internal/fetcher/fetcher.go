package fetcher

import (
	"context"
	"net/http"
)

// Fetcher is the only gate for HTTP success: a request counts as successful
// only when the final response status is exactly 200.
type Fetcher interface {
	// Do sends req and returns the response if its status is 200. Any other
	// status yields a *StatusError with the body already closed; a transport
	// failure yields a *NetworkError.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
