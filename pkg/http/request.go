package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Request is one call built on a Client. Unset options fall back to the client's defaults.
type Request struct {
	client      *Client
	method      string
	path        string
	query       map[string]string
	headers     map[string]string
	body        any
	successResp any
	errorResp   any
	backoff     *BackoffConfig
}

// Request starts a GET on the client's base URL
func (hc *Client) Request() *Request {
	return &Request{client: hc, method: http.MethodGet, path: "/"}
}

func (r *Request) Method(method string) *Request {
	r.method = method
	return r
}

// Path builds the request path from segments. Each segment is escaped whole, so a "/"
// inside one stays part of it.
func (r *Request) Path(segments ...string) *Request {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(segment))
	}
	r.path = "/" + strings.Join(escaped, "/")
	return r
}

func (r *Request) Query(key, value string) *Request {
	if r.query == nil {
		r.query = map[string]string{}
	}
	r.query[key] = value
	return r
}

func (r *Request) Header(key, value string) *Request {
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	r.headers[key] = value
	return r
}

// Bearer authorizes the request with token
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

func (r *Request) Body(body any) *Request {
	r.body = body
	return r
}

// Into decodes a 2xx body into successResp
func (r *Request) Into(successResp any) *Request {
	r.successResp = successResp
	return r
}

// OnError decodes a non 2xx body into errorResp
func (r *Request) OnError(errorResp any) *Request {
	r.errorResp = errorResp
	return r
}

// Backoff overrides the client's retry policy for this request
func (r *Request) Backoff(backoff *BackoffConfig) *Request {
	r.backoff = backoff
	return r
}

// Do sends the request and returns the success response, error response, status code, and error if any.
func (r *Request) Do(ctx context.Context) (any, any, int, error) {
	if r.client == nil {
		return nil, nil, 0, errors.New("client is required")
	}
	if r.method == "" {
		return nil, nil, 0, errors.New("method is required")
	}

	return r.client.doRequestWithBackoff(ctx, r.method, r.path, r.query, r.headers,
		r.body, r.successResp, r.errorResp, r.backoff)
}
