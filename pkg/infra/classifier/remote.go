package classifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	SignatureHeader = "X-Signature"
	DefaultTimeout  = 5 * time.Second

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	maxResponseSize = 64 << 10
)

var (
	ErrClassifierStatus   = errors.New("classifier returned non-2xx status")
	ErrMalformedResponse  = errors.New("classifier response has no usable classification")
	ErrClassifierDisabled = errors.New("remote classifier is not configured")
)

// Classifier asks the central classification API for a verdict. It never
// fails closed: whenever err is non-nil the returned verdict is HUMAN.
type Classifier interface {
	Classify(ctx context.Context, req *visitor.Request) (classification.Verdict, error)
}

type Config struct {
	Endpoint string
	Secret   string
	Timeout  time.Duration
}

type RemoteClassifier struct {
	cfg     Config
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	group   singleflight.Group
	now     func() time.Time
}

func NewRemoteClassifier(
	cfg Config,
	client httpx.Client,
	breaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) *RemoteClassifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteClassifier{
		cfg:     cfg,
		client:  client,
		breaker: breaker,
		logger:  logger,
		now:     time.Now,
	}
}

type payload struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Referer   string `json:"referer"`
	Origin    string `json:"origin"`
	Timestamp string `json:"timestamp"`
}

type signedPayload struct {
	payload
	Signature string `json:"signature,omitempty"`
}

// Classify blocks for at most the configured timeout. Concurrent calls for
// the same ip and user agent share a single outbound request.
func (c *RemoteClassifier) Classify(ctx context.Context, req *visitor.Request) (classification.Verdict, error) {
	if c.cfg.Endpoint == "" {
		return failOpen(ErrClassifierDisabled), ErrClassifierDisabled
	}

	key := req.IP + "\x00" + req.UserAgent
	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()
		return c.classifyWithBreaker(callCtx, req)
	})

	timer := time.NewTimer(c.cfg.Timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return failOpen(res.Err), res.Err
		}
		verdict, ok := res.Val.(classification.Verdict)
		if !ok {
			err := fmt.Errorf("unexpected remote result type %T", res.Val)
			return failOpen(err), err
		}
		return verdict, nil
	case <-ctx.Done():
		return failOpen(ctx.Err()), ctx.Err()
	case <-timer.C:
		err := fmt.Errorf("remote classification timed out after %s", c.cfg.Timeout)
		return failOpen(err), err
	}
}

func (c *RemoteClassifier) classifyWithBreaker(ctx context.Context, req *visitor.Request) (classification.Verdict, error) {
	start := time.Now()
	var verdict classification.Verdict
	var callErr error

	run := func() error {
		verdict, callErr = c.call(ctx, req)
		return callErr
	}
	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(run)
	} else {
		err = run()
	}

	outcome := "ok"
	switch {
	case err != nil && httpx.IsOpen(err):
		outcome = "open"
	case err != nil:
		outcome = "error"
	}
	if prometheus.Config.EnableLatency {
		prometheus.RemoteClassifyLatency.WithLabelValues(outcome).Observe(float64(time.Since(start).Milliseconds()))
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithField("outcome", outcome).Warn("remote classification failed")
		}
		return classification.Verdict{}, err
	}
	return verdict, nil
}

func (c *RemoteClassifier) call(ctx context.Context, req *visitor.Request) (classification.Verdict, error) {
	body, signature, err := c.buildPayload(req)
	if err != nil {
		return classification.Verdict{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return classification.Verdict{}, fmt.Errorf("failed to create classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if signature != "" {
		httpReq.Header.Set(SignatureHeader, signature)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return classification.Verdict{}, fmt.Errorf("failed to call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classification.Verdict{}, fmt.Errorf("%w: status %d", ErrClassifierStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return classification.Verdict{}, fmt.Errorf("failed to read classify response: %w", err)
	}
	decoded, _, err := httpx.DecodeBody(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return classification.Verdict{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return parseResponse(decoded)
}

// buildPayload serializes the request and signs exactly those bytes; the
// signature is then carried both in the body and in SignatureHeader.
func (c *RemoteClassifier) buildPayload(req *visitor.Request) ([]byte, string, error) {
	p := payload{
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
		Referer:   req.Referer,
		Origin:    req.Origin,
		Timestamp: c.now().UTC().Format(timestampLayout),
	}
	canonical, err := json.Marshal(p)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal classify payload: %w", err)
	}
	if c.cfg.Secret == "" {
		return canonical, "", nil
	}

	signature := Sign(c.cfg.Secret, canonical)
	body, err := json.Marshal(signedPayload{payload: p, Signature: signature})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal signed payload: %w", err)
	}
	return body, signature, nil
}

// Sign returns the hex encoded HMAC-SHA256 of data keyed by secret.
func Sign(secret string, data []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// verify checks a signature produced by Sign in constant time.
func verify(secret string, data []byte, signature string) bool {
	expected, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return hmac.Equal(mac.Sum(nil), expected)
}

func failOpen(err error) classification.Verdict {
	return classification.NewHuman(classification.SourceDefault, "remote classification unavailable: "+err.Error())
}
