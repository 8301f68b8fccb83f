package distance

import (
	"archive-route-service/internal/platform/obs"
	"archive-route-service/internal/ports"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBingBaseURL = "https://dev.virtualearth.net"

// BingMatrixService implements MatrixService against the Bing Maps
// distance-matrix endpoint. Requests are not retried: a failed batch is
// reported to the caller as is.
//
// The service is safe for concurrent use.
type BingMatrixService struct {
	session *http.Client
	apiKey  string
	baseURL string
}

type BingOption func(*BingMatrixService)

func WithBaseURL(u string) BingOption {
	return func(b *BingMatrixService) {
		if u != "" {
			b.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) BingOption {
	return func(b *BingMatrixService) {
		if c != nil {
			b.session = c
		}
	}
}

func NewBingMatrixService(apiKey string, opts ...BingOption) (*BingMatrixService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("bing api key is empty")
	}

	svc := &BingMatrixService{
		session: &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		baseURL: DefaultBingBaseURL,
	}
	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// FetchMatrix posts one origins x destinations request.
// A non-2xx answer is returned with its status code and body, not as an error.
func (b *BingMatrixService) FetchMatrix(
	ctx context.Context,
	mr ports.MatrixRequest,
) (_ *ports.MatrixResponse, err error) {
	defer obs.Time(ctx, "bing.FetchMatrix")(&err)

	if len(mr.Origins) == 0 || len(mr.Destinations) == 0 {
		return nil, errors.New("bing matrix: origins and destinations must be non-empty")
	}

	payload, err := json.Marshal(mr)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := b.baseURL + "/REST/v1/Routes/DistanceMatrix"
	req, err := b.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("matrix request: %w", err)
	}

	resp, err := b.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ports.MatrixResponse{
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp),
		}, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read matrix response: %w", err)
	}

	var decoded ports.MatrixResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	// The payload carries its own status; fall back to the HTTP one when absent.
	if decoded.StatusCode == 0 {
		decoded.StatusCode = resp.StatusCode
	}
	if decoded.StatusCode != http.StatusOK {
		decoded.Body = strings.TrimSpace(string(raw))
	}

	return &decoded, nil
}
