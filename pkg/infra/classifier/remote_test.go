package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/httpx/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "shared-secret"

func newVisitorRequest() *visitor.Request {
	return &visitor.Request{
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Referer:   "https://mail.example.com/",
		Origin:    "https://mail.example.com",
		RequestID: "req-1",
	}
}

func newTestClassifier(endpoint string, client httpx.Client, timeout time.Duration) *RemoteClassifier {
	c := NewRemoteClassifier(
		Config{Endpoint: endpoint, Secret: testSecret, Timeout: timeout},
		client,
		httpx.NewCircuitBreaker("classifier-test", 30*time.Second, 100),
		logrus.New(),
	)
	c.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return c
}

func TestRemoteClassifier_Classify(t *testing.T) {
	t.Run("Bot verdict with client info", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/classify", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var signed signedPayload
			require.NoError(t, json.Unmarshal(body, &signed))
			assert.Equal(t, "203.0.113.7", signed.IPAddress)
			assert.Equal(t, "https://mail.example.com/", signed.Referer)
			assert.Equal(t, "https://mail.example.com", signed.Origin)
			assert.Equal(t, "2026-03-04T05:06:07.000Z", signed.Timestamp)

			canonical, err := json.Marshal(signed.payload)
			require.NoError(t, err)
			assert.True(t, verify(testSecret, canonical, signed.Signature))
			assert.Equal(t, signed.Signature, r.Header.Get(SignatureHeader))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"classification":"bot","reason":"datacenter ip","trust_level":12,` + //nolint:errcheck
				`"client_info":{"country":"US","city":"Ashburn","isp":"Example Cloud","usage_type":"DCH"}}`))
		}))
		defer server.Close()

		c := newTestClassifier(server.URL+"/api/classify", &http.Client{}, time.Second)
		verdict, err := c.Classify(context.Background(), newVisitorRequest())

		require.NoError(t, err)
		assert.Equal(t, classification.Bot, verdict.Classification)
		assert.Equal(t, classification.SourceRemoteAPI, verdict.Source)
		assert.Equal(t, "datacenter ip", verdict.Reason)
		assert.Equal(t, 12, verdict.TrustLevel)
		require.NotNil(t, verdict.ClientInfo)
		assert.Equal(t, "Ashburn", verdict.ClientInfo.City)
		assert.Equal(t, "DCH", verdict.ClientInfo.UsageType)
	})

	t.Run("Human verdict", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"classification":"HUMAN"}`)) //nolint:errcheck
		}))
		defer server.Close()

		c := newTestClassifier(server.URL, &http.Client{}, time.Second)
		verdict, err := c.Classify(context.Background(), newVisitorRequest())

		require.NoError(t, err)
		assert.Equal(t, classification.Human, verdict.Classification)
		assert.Equal(t, classification.SourceRemoteAPI, verdict.Source)
		assert.Nil(t, verdict.ClientInfo)
	})

	t.Run("Server error fails open", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := newTestClassifier(server.URL, &http.Client{}, time.Second)
		verdict, err := c.Classify(context.Background(), newVisitorRequest())

		assert.ErrorIs(t, err, ErrClassifierStatus)
		assert.Equal(t, classification.Human, verdict.Classification)
		assert.Equal(t, classification.SourceDefault, verdict.Source)
	})

	t.Run("Timeout fails open within bound", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()
		defer close(release)

		c := newTestClassifier(server.URL, &http.Client{}, 50*time.Millisecond)
		start := time.Now()
		verdict, err := c.Classify(context.Background(), newVisitorRequest())

		assert.Error(t, err)
		assert.Equal(t, classification.Human, verdict.Classification)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("Malformed responses fail open", func(t *testing.T) {
		for _, body := range []string{`not json`, `{"foo":1}`, `{"classification":"MAYBE"}`, `{"classification":7}`} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body)) //nolint:errcheck
			}))

			c := newTestClassifier(server.URL, &http.Client{}, time.Second)
			verdict, err := c.Classify(context.Background(), newVisitorRequest())
			server.Close()

			assert.ErrorIs(t, err, ErrMalformedResponse, body)
			assert.Equal(t, classification.Human, verdict.Classification, body)
		}
	})

	t.Run("Transport error fails open", func(t *testing.T) {
		client := new(mocks.MockHTTPClient)
		client.On("Do", mock.Anything).Return(nil, errors.New("connection refused"))

		c := newTestClassifier("http://classifier.invalid/api/classify", client, time.Second)
		verdict, err := c.Classify(context.Background(), newVisitorRequest())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, classification.Human, verdict.Classification)
		client.AssertExpectations(t)
	})

	t.Run("Unconfigured endpoint", func(t *testing.T) {
		c := newTestClassifier("", &http.Client{}, time.Second)
		verdict, err := c.Classify(context.Background(), newVisitorRequest())

		assert.ErrorIs(t, err, ErrClassifierDisabled)
		assert.Equal(t, classification.Human, verdict.Classification)
	})
}

func TestRemoteClassifier_OpenBreakerSkipsCall(t *testing.T) {
	client := new(mocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(mocks.JSONResponse(http.StatusBadGateway, ""), nil).Once()

	c := NewRemoteClassifier(
		Config{Endpoint: "http://classifier.local/api/classify", Timeout: time.Second},
		client,
		httpx.NewCircuitBreaker("classifier-open", time.Minute, 1),
		logrus.New(),
	)

	_, err := c.Classify(context.Background(), newVisitorRequest())
	require.ErrorIs(t, err, ErrClassifierStatus)

	verdict, err := c.Classify(context.Background(), newVisitorRequest())
	assert.True(t, httpx.IsOpen(err))
	assert.Equal(t, classification.Human, verdict.Classification)
	client.AssertNumberOfCalls(t, "Do", 1)
}

func TestRemoteClassifier_CoalescesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"classification":"BOT"}`)) //nolint:errcheck
	}))
	defer server.Close()

	c := newTestClassifier(server.URL, &http.Client{}, time.Second)

	var wg sync.WaitGroup
	results := make([]classification.Verdict, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Classify(context.Background(), newVisitorRequest()) //nolint:errcheck
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, classification.Bot, v.Classification)
	}
}

func TestRemoteClassifier_UnsignedWithoutSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(SignatureHeader))
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		_, hasSignature := body["signature"]
		assert.False(t, hasSignature)
		_, _ = w.Write([]byte(`{"classification":"HUMAN"}`)) //nolint:errcheck
	}))
	defer server.Close()

	c := NewRemoteClassifier(Config{Endpoint: server.URL}, &http.Client{}, nil, logrus.New())
	_, err := c.Classify(context.Background(), newVisitorRequest())
	assert.NoError(t, err)
}

func TestSignAndVerify(t *testing.T) {
	data := []byte(`{"ip_address":"203.0.113.7"}`)
	signature := Sign(testSecret, data)

	assert.Len(t, signature, 64)
	assert.True(t, verify(testSecret, data, signature))
	assert.False(t, verify("other-secret", data, signature))
	assert.False(t, verify(testSecret, []byte(`{}`), signature))
	assert.False(t, verify(testSecret, data, "zz"))
}

func TestParseResponse_Variants(t *testing.T) {
	verdict, err := parseResponse([]byte(`{"classification":" Bot ","trustLevel":"40","clientInfo":{"usageType":"DCH","country":"DE"}}`))
	require.NoError(t, err)
	assert.Equal(t, classification.Bot, verdict.Classification)
	assert.Equal(t, 40, verdict.TrustLevel)
	assert.Equal(t, "remote classification", verdict.Reason)
	require.NotNil(t, verdict.ClientInfo)
	assert.Equal(t, "DCH", verdict.ClientInfo.UsageType)
	assert.Equal(t, "DE", verdict.ClientInfo.Country)
}
