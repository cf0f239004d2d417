package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/cgea-sas/console/internal/client/models"
)

// Client issues JSON and multipart requests against a base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for baseURL (e.g. "https://host/api/"). Relative
// paths passed to its methods are resolved against it.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: u, http: httpClient}, nil
}

func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Resolve returns the absolute URL of path with the given query.
func (c *Client) Resolve(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, c.Resolve(path, query), nil, "", out)
}

// GetURL fetches an absolute URL such as a pagination "next" link.
func (c *Client) GetURL(ctx context.Context, rawURL string, out any) error {
	return c.do(ctx, http.MethodGet, rawURL, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) PostMultipart(ctx context.Context, path string, fields []models.FormField, file *models.Attachment, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, fields, file, out)
}

func (c *Client) PutMultipart(ctx context.Context, path string, fields []models.FormField, file *models.Attachment, out any) error {
	return c.sendMultipart(ctx, http.MethodPut, path, fields, file, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, c.Resolve(path, nil), nil, "", nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return c.do(ctx, method, c.Resolve(path, nil), body, "application/json", out)
}

// ScanField is the multipart part name of the scanned document.
const ScanField = "scan"

func (c *Client) sendMultipart(ctx context.Context, method, path string, fields []models.FormField, file *models.Attachment, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(ScanField, file.Filename)
		if err != nil {
			return err
		}
		if _, err := part.Write(file.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.do(ctx, method, c.Resolve(path, nil), buf.Bytes(), w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapTransportError(method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", method, rawURL, ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, rawURL, newAPIError(resp.StatusCode, data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, rawURL, err)
	}
	return nil
}

// wrapTransportError keeps ErrSessionExpired raised by AuthHook as is and
// classifies every other failure as ErrUnavailable.
func wrapTransportError(method, rawURL string, err error) error {
	if errors.Is(err, ErrSessionExpired) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	return fmt.Errorf("%s %s: %w: %w", method, rawURL, ErrUnavailable, err)
}
