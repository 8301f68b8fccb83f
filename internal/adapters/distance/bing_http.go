package distance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Responses above this size are cut when kept for diagnosis.
const maxErrorBody = 4096

func (b *BingMatrixService) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	q := req.URL.Query()
	q.Set("key", b.apiKey)
	req.URL.RawQuery = q.Encode()

	return req, nil
}

// readErrorBody drains a failed response so the caller can attach it to its error.
func readErrorBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return strings.TrimSpace(string(b))
}
