package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodyBytes     = 8 << 20
)

type Response struct {
	Status int
	Header http.Header
	Body   []byte
	URL    string
}

func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

func (r *Response) Blocked() bool { return LooksBlocked(r.Status, r.Header, r.Body) }

// Fetcher is the single HTTP path every board goes through. It applies the
// host limiter, common headers and a body cap, and decodes HTML to UTF-8.
type Fetcher struct {
	hc        *http.Client
	limiter   *HostLimiter
	userAgent string
}

func NewFetcher(timeout time.Duration, limiter *HostLimiter, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		hc:        &http.Client{Timeout: timeout},
		limiter:   limiter,
		userAgent: FirstNonEmpty(userAgent, DefaultUserAgent),
	}
}

func (f *Fetcher) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*Response, error) {
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return f.Do(req)
}

func (f *Fetcher) Do(req *http.Request) (*Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}

	if err := f.limiter.WaitURL(req.Context(), req.URL.String()); err != nil {
		return nil, err
	}

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Host, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		Status: res.StatusCode,
		Header: res.Header,
		Body:   decodeBody(data, res.Header.Get("Content-Type")),
		URL:    req.URL.String(),
	}, nil
}

func decodeBody(data []byte, contentType string) []byte {
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "text/") {
		return data
	}
	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(data)) {
		return data
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if utf8.Valid(data) {
			return data
		}
		return bytes.ToValidUTF8(data, []byte("?"))
	}
	return out
}
