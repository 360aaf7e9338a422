package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

const jsonContentType = "application/json"

// ErrUnexpectedContentType is returned when a 2xx response that should be decoded is not JSON
var ErrUnexpectedContentType = errors.New("unexpected response content type")

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL        string
	client         *http.Client
	defaultHeaders map[string]string
	backoff        *BackoffConfig
	logger         HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	DefaultHeaders      map[string]string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	Backoff             *BackoffConfig
	Logger              HTTPLogger
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}

	var logger HTTPLogger = NopLogger{}
	if opts.Logger != nil {
		logger = opts.Logger
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectionTimeout,
		}).DialContext,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         client,
		defaultHeaders: opts.DefaultHeaders,
		backoff:        opts.Backoff,
		logger:         logger,
	}
}

// attempt is the outcome of a single round trip.
type attempt struct {
	status       int
	responseBody []byte
	contentType  string
	latency      time.Duration
	err          error
}

// doRequestWithBackoff sends the request, retrying according to the given backoff (or the client's default).
// It returns the success response, error response, status code, and error if any.
func (hc *Client) doRequestWithBackoff(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if backoff == nil {
		backoff = hc.backoff
	}

	url := hc.buildURL(path)
	if len(queryParams) > 0 {
		url += "?" + buildQueryString(queryParams)
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, nil, 0, err
	}

	requestHeaders := make(map[string]string, len(hc.defaultHeaders)+len(headers)+1)
	if payload != nil {
		requestHeaders["Content-Type"] = jsonContentType
	}
	for k, v := range hc.defaultHeaders {
		requestHeaders[k] = v
	}
	for k, v := range headers {
		requestHeaders[k] = v
	}

	maxRetries := 0
	if backoff != nil {
		maxRetries = backoff.MaxRetries
	}

	exchange := Exchange{Method: method, URL: url, Headers: requestHeaders, Body: string(payload), MaxRetries: maxRetries}

	var result attempt
	for retry := 0; ; retry++ {
		hc.logger.LogRequest(exchange)

		result = hc.doRequest(ctx, method, url, requestHeaders, payload)
		exchange = exchange.with(result)

		if retry >= maxRetries || !backoff.shouldRetry(result.status, result.err) {
			break
		}
		exchange.Retry = retry + 1
		hc.logger.LogRetry(exchange)
		if err := backoff.wait(ctx, retry); err != nil {
			result.err = err
			exchange.Err = err
			break
		}
	}

	if result.err != nil {
		hc.logger.LogResponse(exchange)
		return nil, nil, result.status, result.err
	}

	if result.status >= 200 && result.status < 300 {
		hc.logger.LogResponse(exchange)
		if successResp != nil && len(result.responseBody) > 0 {
			if !isJSON(result.contentType) {
				return nil, nil, result.status, fmt.Errorf("%w: %q", ErrUnexpectedContentType, result.contentType)
			}
			if err := json.Unmarshal(result.responseBody, successResp); err != nil {
				return nil, nil, result.status, err
			}
		}
		return successResp, nil, result.status, nil
	}

	statusErr := fmt.Errorf("http error: status %d", result.status)
	exchange.Err = statusErr
	hc.logger.LogResponse(exchange)

	// proxies answer with HTML error pages; only JSON bodies fill errorResp
	if errorResp == nil || len(result.responseBody) == 0 || !isJSON(result.contentType) {
		return nil, nil, result.status, statusErr
	}
	if err := json.Unmarshal(result.responseBody, errorResp); err != nil {
		return nil, nil, result.status, errors.Join(statusErr, err)
	}
	return nil, errorResp, result.status, statusErr
}

// encodeBody marshals the body to JSON; a nil body sends no payload.
func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body to JSON: %w", err)
	}
	return payload, nil
}

// doRequest executes one round trip and reads the whole response.
func (hc *Client) doRequest(ctx context.Context, method, url string, headers map[string]string, payload []byte) attempt {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return attempt{err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := hc.client.Do(req)
	if err != nil {
		return attempt{err: err, latency: time.Since(start)}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		return attempt{status: resp.StatusCode, err: err, latency: latency}
	}

	return attempt{
		status:       resp.StatusCode,
		responseBody: bodyBytes,
		contentType:  resp.Header.Get("Content-Type"),
		latency:      latency,
	}
}

// isJSON accepts application/json and +json media types. A missing header counts as JSON.
func isJSON(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == jsonContentType || strings.HasSuffix(mediaType, "+json")
}

func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}

// buildQueryString encodes params in key order
func buildQueryString(params map[string]string) string {
	values := make(neturl.Values, len(params))
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}
