package bitrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/taskport/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestInterval is the minimum spacing between REST calls.
	DefaultRequestInterval = time.Second

	// DefaultTimeout bounds every REST call.
	DefaultTimeout = 20 * time.Second

	// downloadTimeout bounds direct content downloads, which are not
	// subject to the REST timeout.
	downloadTimeout = 5 * time.Minute
)

// NewLimiter creates the single-flight limiter shared by the source and
// destination clients: burst 1, one dispatch per interval.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		interval = DefaultRequestInterval
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// ClientOpts contains configuration for creating a portal [Client].
type ClientOpts struct {
	Domain       string // Portal base URL, e.g. https://acme.example-portal.com
	UserID       int    // Webhook user id
	WebhookToken string // Inbound webhook token
	AccessToken  string // OAuth bearer token; takes precedence over the webhook token
	Timeout      time.Duration
	Limiter      *rate.Limiter // Shared limiter; required
	HTTPClient   *http.Client  // Overrides the default client (tests)
}

// Client issues rate-limited REST calls against one portal account.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	downloadClient *http.Client
	limiter        *rate.Limiter
}

// NewClient creates a portal client from the given options.
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.Domain == "" {
		return nil, fmt.Errorf("%w: portal domain required", shared.ErrInvalidConfig)
	}
	if opts.Limiter == nil {
		return nil, fmt.Errorf("%w: shared limiter required", shared.ErrInvalidConfig)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	domain := strings.TrimRight(opts.Domain, "/")

	var baseURL string
	httpClient := opts.HTTPClient

	switch {
	case opts.AccessToken != "":
		baseURL = domain + "/rest"
		if httpClient == nil {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken})
			httpClient = oauth2.NewClient(context.Background(), src)
			httpClient.Timeout = opts.Timeout
		}
	case opts.WebhookToken != "":
		baseURL = fmt.Sprintf("%s/rest/%d/%s", domain, opts.UserID, opts.WebhookToken)
		if httpClient == nil {
			httpClient = &http.Client{Timeout: opts.Timeout}
		}
	default:
		return nil, fmt.Errorf("%w: webhook_token or access_token required", shared.ErrMissingToken)
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		downloadClient: &http.Client{Timeout: downloadTimeout},
		limiter:        opts.Limiter,
	}, nil
}

// apiError is the remote application error body.
type apiError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// get performs a rate-limited GET call to the named REST method and decodes
// the response body into out.
func (c *Client) get(ctx context.Context, method string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + "/" + method
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, method, out)
}

// post performs a rate-limited POST call with a JSON body.
func (c *Client) post(ctx context.Context, method string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, method, out)
}

// postForm performs a rate-limited multipart POST (disk uploads).
func (c *Client) postForm(ctx context.Context, method string, form func(w *multipart.Writer) error, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := form(w); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, method, out)
}

// do dispatches the request and decodes the envelope into out, surfacing
// remote application errors as [shared.ErrAPIRequest].
func (c *Client) do(req *http.Request, method string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var remote apiError
	if err := json.Unmarshal(body, &remote); err == nil && remote.Code != "" {
		return fmt.Errorf("%w: %s: %s (%s)", shared.ErrAPIRequest, method, remote.Code, remote.Description)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, method, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Download fetches binary content from a direct URL, bypassing the rate
// limiter and the REST timeout.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: download: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}

	return data, nil
}
