package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	apiPrefix              = "/api"
	defaultRequestIDHeader = "X-Request-ID"
	tracerName             = "github.com/tasdonena/admin-console/pkg/apiclient"
)

// TokenSource yields the current session token; "" means anonymous.
type TokenSource interface {
	Load() (string, error)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithRequestIDHeader(name string) Option {
	return func(c *Client) {
		if strings.TrimSpace(name) != "" {
			c.requestIDHeader = name
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

type Client struct {
	baseURL         string
	httpClient      *http.Client
	tokens          TokenSource
	requestIDHeader string
	log             *logrus.Logger
	tracer          trace.Tracer
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid base url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("invalid base url: missing host")
	}

	c := &Client{
		baseURL:         strings.TrimRight(u.String(), "/"),
		httpClient:      NewHTTPClient(30 * time.Second),
		requestIDHeader: defaultRequestIDHeader,
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the absolute URL for an API endpoint such as "/login".
func (c *Client) URL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + apiPrefix + endpoint
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out)
}

// Do performs one JSON call. A 2xx body that fails to decode leaves out
// untouched. Non-2xx responses return *APIError and failures before a
// response return *TransportError.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	route := routeTemplate(endpoint)
	target := c.URL(endpoint)
	start := time.Now()
	status := 0

	ctx, span := c.tracer.Start(ctx, method+" "+route, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", apiPrefix+route),
	)
	defer func() {
		result := resultLabel(status, err)
		recordRequestMetrics(method, route, result, time.Since(start))
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.log.WithFields(logrus.Fields{
			"method":   method,
			"endpoint": endpoint,
			"status":   status,
			"duration": time.Since(start).String(),
		}).Debug("apiclient: request finished")
	}()

	var reader io.Reader
	if body != nil {
		b, mErr := json.Marshal(body)
		if mErr != nil {
			return errors.Wrap(mErr, "marshal request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.requestIDHeader, uuid.NewString())
	if err := c.authorize(req); err != nil {
		return err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: errors.Wrap(err, "read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Data:       parseErrorBody(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if uErr := json.Unmarshal(respBody, out); uErr != nil {
		c.log.WithError(uErr).Warnf("apiclient: %s %s returned a non-JSON body", method, endpoint)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Load()
	if err != nil {
		return errors.Wrap(err, "load session token")
	}
	if tok == "" {
		return nil
	}
	(&oauth2.Token{AccessToken: tok}).SetAuthHeader(req)
	return nil
}
