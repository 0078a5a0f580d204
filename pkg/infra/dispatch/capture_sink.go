package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/httpx"
)

var ErrCaptureRejected = errors.New("capture endpoint rejected the email")

// HTTPCaptureSink posts captured emails to the central capture endpoint.
// Nothing in the response body is interpreted.
type HTTPCaptureSink struct {
	endpoint string
	client   httpx.Client
}

func NewHTTPCaptureSink(endpoint string, client httpx.Client) *HTTPCaptureSink {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPCaptureSink{endpoint: endpoint, client: client}
}

func (s *HTTPCaptureSink) Name() string {
	return "http_capture"
}

func (s *HTTPCaptureSink) Capture(ctx context.Context, email visitor.CapturedEmail) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal captured email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call capture endpoint: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrCaptureRejected, resp.StatusCode)
	}
	return nil
}
