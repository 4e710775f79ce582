package clientwire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// requestIDHeader carries the per-request correlation ID.
const requestIDHeader = "X-Request-ID"

// StatusError is returned by HTTPClient.Invoke for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("remote call failed: %s", e.Status)
}

// HTTPClient is the default transport client: a thin request/response helper
// over net/http. It resolves proxies from a catalog of generated adapter
// bindings and performs JSON round-trips for Invoke.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	catalog *Catalog
	logger  *log.Logger

	mu      sync.Mutex
	proxies map[reflect.Type]any
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets the underlying net/http client.
func WithHTTPClient(httpc *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpc = httpc
	}
}

// WithCatalog sets the binding catalog Create resolves adapters from.
func WithCatalog(catalog *Catalog) HTTPClientOption {
	return func(c *HTTPClient) {
		c.catalog = catalog
	}
}

// WithClientLogger sets the client's logger.
func WithClientLogger(logger *log.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates a transport client rooted at baseURL, backed by the
// default catalog unless overridden.
func NewHTTPClient(baseURL string, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		catalog: DefaultCatalog,
		logger:  log.Default(),
		proxies: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create returns the adapter implementing the target interface, constructing
// it from its catalog binding on first request and caching it afterwards.
func (c *HTTPClient) Create(target reflect.Type) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if proxy, ok := c.proxies[target]; ok {
		return proxy, nil
	}
	binding, ok := c.catalog.Lookup(target)
	if !ok {
		return nil, newErrorf(CodeTransport, "no service binding for %s; run the clientwire generator or register the binding explicitly", target)
	}
	proxy := binding.New(c)
	c.proxies[target] = proxy
	return proxy, nil
}

// Invoke performs one remote HTTP call. Path parameters are filled from args
// in order; for body-carrying verbs the single remaining argument becomes
// the JSON request body. Methods without call metadata fall back to
// POST /Service.Method with the argument list as a JSON array.
func (c *HTTPClient) Invoke(ctx context.Context, call Call, args []any, out any) error {
	method, target, body, err := c.buildRequest(call, args)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return wrapError(CodeTransport, fmt.Sprintf("encoding request body for %s", call), err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return wrapError(CodeTransport, fmt.Sprintf("building request for %s", call), err)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("invoking remote call", "call", call.String(), "method", method, "url", target, "request_id", requestID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return wrapError(CodeTransport, fmt.Sprintf("calling %s", call), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(CodeTransport, fmt.Sprintf("reading response for %s", call), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("remote call failed", "call", call.String(), "status", resp.Status, "request_id", requestID)
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: payload}
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return wrapError(CodeTransport, fmt.Sprintf("decoding response for %s", call), err)
	}
	return nil
}

// buildRequest maps a call plus arguments onto an HTTP method, URL, and
// optional body value.
func (c *HTTPClient) buildRequest(call Call, args []any) (method, target string, body any, err error) {
	if call.HTTPMethod == "" {
		// No call metadata: RPC-style fallback.
		return http.MethodPost, c.baseURL + "/" + url.PathEscape(call.String()), args, nil
	}

	method = strings.ToUpper(call.HTTPMethod)
	path, remaining, err := expandPath(call.Path, args)
	if err != nil {
		return "", "", nil, newErrorf(CodeTransport, "%s: %v", call, err)
	}

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		switch len(remaining) {
		case 0:
		case 1:
			body = remaining[0]
		default:
			return "", "", nil, newErrorf(CodeTransport, "%s: %d arguments left after path expansion, at most one body argument is allowed", call, len(remaining))
		}
	default:
		if len(remaining) > 0 {
			return "", "", nil, newErrorf(CodeTransport, "%s: %d arguments left after path expansion and %s carries no body", call, len(remaining), method)
		}
	}

	return method, c.baseURL + path, body, nil
}

// expandPath substitutes {param} segments with positional arguments and
// returns the unconsumed arguments.
func expandPath(template string, args []any) (string, []any, error) {
	var sb strings.Builder
	rest := args
	for {
		start := strings.Index(template, "{")
		if start == -1 {
			sb.WriteString(template)
			return sb.String(), rest, nil
		}
		end := strings.Index(template[start:], "}")
		if end == -1 {
			return "", nil, fmt.Errorf("unterminated path parameter in %q", template)
		}
		if len(rest) == 0 {
			return "", nil, fmt.Errorf("not enough arguments for path parameter %q", template[start:start+end+1])
		}
		sb.WriteString(template[:start])
		sb.WriteString(url.PathEscape(fmt.Sprintf("%v", rest[0])))
		rest = rest[1:]
		template = template[start+end+1:]
	}
}
