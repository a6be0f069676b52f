// Package api is the client of the portfolio service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/importer"
	"github.com/etnz/importer/source"
	"golang.org/x/time/rate"
)

// DefaultPageSize is the number of assets requested per page.
const DefaultPageSize = 500

// Client calls the portfolio service on behalf of an authenticated user.
type Client struct {
	base     *url.URL
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	PageSize int
}

// New returns a client of the service at 'baseURL', authenticated with the
// bearer 'token'. Requests are limited to 10 per second.
func New(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("missing portfolio service url")
	}
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid portfolio service url %q: %w", baseURL, err)
	}
	return &Client{
		base:     base,
		token:    token,
		http:     &http.Client{Timeout: 2 * time.Minute},
		limiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		PageSize: DefaultPageSize,
	}, nil
}

// StatusError is a non 2xx response of the service.
type StatusError struct {
	Method, Path string
	Code         int
	Detail       string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot http %s %s: %d %s", e.Method, e.Path, e.Code, e.Detail)
	}
	return fmt.Sprintf("cannot http %s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

// do sends a request and decodes the json response into 'data'.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, data any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u := c.base.JoinPath(path)
	// some routes require their trailing slash.
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Detail: detail(resp.Body)}
	}
	if data == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("invalid response to %s %s: %w", method, path, err)
	}
	return nil
}

// detail extracts the error message of a FastAPI error body.
func detail(r io.Reader) string {
	content, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(content, &body); err != nil || body.Detail == nil {
		return strings.TrimSpace(string(content))
	}
	if s, ok := body.Detail.(string); ok {
		return s
	}
	b, _ := json.Marshal(body.Detail)
	return string(b)
}

// CommitBatch creates all transactions in the portfolio.
func (c *Client) CommitBatch(ctx context.Context, portfolioID int64, txs []importer.Payload) (*importer.CommitResponse, error) {
	req := struct {
		PortfolioID  int64              `json:"portfolio_id"`
		Transactions []importer.Payload `json:"transactions"`
	}{portfolioID, txs}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp := new(importer.CommitResponse)
	if err := c.do(ctx, http.MethodPost, "/api/v1/account-statements/transactions/bulk-create", nil, "application/json", bytes.NewReader(body), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Assets lists all assets of the catalog, page by page.
func (c *Client) Assets(ctx context.Context) ([]importer.Asset, error) {
	size := c.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	var assets []importer.Asset
	for offset := 0; ; offset += size {
		var page []importer.Asset
		query := url.Values{"limit": {strconv.Itoa(size)}, "offset": {strconv.Itoa(offset)}}
		if err := c.do(ctx, http.MethodGet, "/api/v1/assets/", query, "", nil, &page); err != nil {
			return nil, err
		}
		// pages may overlap when the catalog changes during the listing.
		assets = importer.MergeByID(assets, page, func(a importer.Asset) importer.AssetID { return a.ID })
		if len(page) < size {
			return assets, nil
		}
	}
}

// Provider is a statement provider supported by the parsing service.
type Provider struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	SupportedFormats []string `json:"supported_formats"`
}

// Providers lists the supported statement providers.
func (c *Client) Providers(ctx context.Context) ([]Provider, error) {
	var resp struct {
		Providers []Provider `json:"providers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/account-statements/providers", nil, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Providers, nil
}

// ParseStatement uploads a statement document to the parsing service and
// decodes the rows it found.
func (c *Client) ParseStatement(ctx context.Context, provider, filename string, r io.Reader) (*source.Statement, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("provider_id", provider); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("cannot read statement: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/v1/account-statements/parse", nil, w.FormDataContentType(), &body, &raw); err != nil {
		return nil, err
	}
	st, err := source.DecodeJSON(bytes.NewReader(raw), source.Options{})
	if err != nil {
		return nil, fmt.Errorf("invalid parsing result: %w", err)
	}
	if st.Source.Provider == "" {
		st.Source.Provider = provider
	}
	st.Source.Filename = filename
	return st, nil
}
