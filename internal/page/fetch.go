// Package page locates the problem description in a page, and builds the
// HTML the translated description is shown in.
package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// MaxPageSize limits fetched pages to 10MB.
const MaxPageSize = 10 * 1024 * 1024

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	client *resty.Client
	log    *zap.Logger
}

func NewFetcher(log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	c := resty.New().
		SetTimeout(30*time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetDoNotParseResponse(true)
	c.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
	})
	return &Fetcher{client: c, log: log}
}

// Fetch returns the page body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status())
	}
	data, err := io.ReadAll(io.LimitReader(body, MaxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > MaxPageSize {
		return nil, fmt.Errorf("fetch %s: page larger than %d bytes", url, MaxPageSize)
	}
	f.log.Debug("fetched page", zap.String("url", url), zap.Int("bytes", len(data)))
	return Decode(data, resp.Header().Get("Content-Type"))
}

// Decode converts data to UTF-8. A charset named by contentType wins;
// otherwise the encoding is detected from the bytes.
func Decode(data []byte, contentType string) ([]byte, error) {
	if _, params, err := mime.ParseMediaType(contentType); err == nil && params["charset"] != "" {
		r, err := charset.NewReader(bytes.NewReader(data), contentType)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", params["charset"], err)
		}
		return io.ReadAll(r)
	}
	name := DetectCharset(data)
	if name == "utf-8" {
		return data, nil
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return data, nil
	}
	return io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(data)))
}

// DetectCharset returns the most likely charset of data, lowercased.
func DetectCharset(data []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// IsHTML sniffs whether data is an HTML document rather than Markdown or
// plain text.
func IsHTML(data []byte) bool {
	return mimetype.Detect(data).Is("text/html")
}
