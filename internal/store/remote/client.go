// Package remote talks to the Billed backend API over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/store"
)

var _ store.Store = (*Client)(nil)

const backend = "remote"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	prom    *observability.Prom
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithProm(p *observability.Prom) Option {
	return func(c *Client) { c.prom = p }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) observe(op string, fn func() error) error {
	if c.prom != nil {
		return c.prom.ObserveStore(backend, op, fn)
	}
	return fn()
}

func (c *Client) List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
	u := c.baseURL + "/bills"
	if filter.Email != "" {
		u += "?" + url.Values{"email": {filter.Email}}.Encode()
	}

	var out []bill.Bill

	err := c.observe("list", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		return c.do(req, &out)
	})
	if err != nil {
		return nil, store.AsError(err)
	}

	if out == nil {
		out = []bill.Bill{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, req store.CreateRequest) (store.CreateResult, error) {
	var res store.CreateResult

	err := c.observe("create", func() error {
		body, contentType, err := multipartBody(req)
		if err != nil {
			return err
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bills", body)
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", contentType)

		return c.do(httpReq, &res)
	})
	if err != nil {
		return store.CreateResult{}, store.AsError(err)
	}

	if res.FileName == "" {
		res.FileName = req.FileName
	}
	return res, nil
}

func (c *Client) Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error) {
	var out bill.Bill

	err := c.observe("update", func() error {
		raw, err := json.Marshal(b)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/bills/"+url.PathEscape(key), bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		return c.do(req, &out)
	})
	if err != nil {
		return bill.Bill{}, store.AsError(err)
	}

	if out.ID == "" {
		out = b
		out.ID = key
	}
	return out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return store.NewError(resp.StatusCode, fmt.Errorf("%s %s", req.Method, req.URL.Path))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}

	return nil
}

func multipartBody(req store.CreateRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.FileName))

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("email", req.Email); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
