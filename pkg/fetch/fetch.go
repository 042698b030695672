// Package fetch downloads base images and SVG markup referenced by render requests.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"time"

	// Decoders for base images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpc"
	"golang.org/x/time/rate"
)

var (
	errScheme   = errors.New("only http and https URLs are supported")
	errTooLarge = errors.New("response exceeds size limit")
	errPixels   = errors.New("image dimensions exceed pixel limit")
)

// FetchError reports a download that could not be used.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config holds download limits.
type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	MaxPixels int64   // width*height bound checked before decoding
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   15 * time.Second,
		MaxBytes:  20 << 20,
		MaxPixels: 40_000_000,
		RateLimit: 20,
		Burst:     10,
		UserAgent: "plat-textsnap/1.0",
	}
}

// Fetcher downloads remote resources through a go-zero HTTP client service.
type Fetcher struct {
	config  Config
	service httpc.Service
	limiter *rate.Limiter
}

// New creates a fetcher.
func New(c Config) *Fetcher {
	def := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = def.MaxBytes
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = def.MaxPixels
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if c.RateLimit > 0 {
		burst := c.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(c.RateLimit), burst)
	}

	client := &http.Client{Timeout: c.Timeout}
	return &Fetcher{
		config:  c,
		service: httpc.NewServiceWithClient("fetch", client),
		limiter: limiter,
	}
}

// Bytes downloads rawURL and returns the body.
func (f *Fetcher) Bytes(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &FetchError{URL: rawURL, Err: errScheme}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	start := time.Now()
	resp, err := f.service.DoRequest(req)
	if err != nil {
		fetches.Inc("error")
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetches.Inc("status")
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		fetches.Inc("error")
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if int64(len(body)) > f.config.MaxBytes {
		fetches.Inc("too_large")
		return nil, &FetchError{URL: rawURL, Err: errTooLarge}
	}

	fetches.Inc("ok")
	fetchDuration.ObserveFloat(time.Since(start).Seconds())
	logx.WithContext(ctx).Debugw("Fetched resource",
		logx.Field("url", rawURL),
		logx.Field("bytes", len(body)),
		logx.Field("duration", time.Since(start).String()),
	)
	return body, nil
}

// Image downloads and decodes an image. It returns the decoded format name.
// Images whose header declares more than MaxPixels are rejected undecoded.
func (f *Fetcher) Image(ctx context.Context, rawURL string) (image.Image, string, error) {
	body, err := f.Bytes(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: fmt.Errorf("decode image: %w", err)}
	}
	if int64(cfg.Width)*int64(cfg.Height) > f.config.MaxPixels {
		fetches.Inc("too_large")
		return nil, "", &FetchError{URL: rawURL, Err: fmt.Errorf("%w: %dx%d", errPixels, cfg.Width, cfg.Height)}
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: fmt.Errorf("decode image: %w", err)}
	}
	return img, format, nil
}
