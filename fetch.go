package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/temoto/robotstxt"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher issues upstream GET requests. A new http.Client is built for every
// request; only the transport may be shared.
type Fetcher struct {
	UserAgent     string
	Timeout       time.Duration
	RespectRobots bool
	// Transport overrides http.DefaultTransport when set.
	Transport http.RoundTripper
}

func (f *Fetcher) newClient() *http.Client {
	return &http.Client{
		Timeout:   f.Timeout,
		Transport: f.Transport,
	}
}

// Get performs a GET and returns the open response. Transport failures and
// non-2xx statuses come back as *NetworkError; the caller closes the body.
func (f *Fetcher) Get(ctx context.Context, target, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.newClient().Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &NetworkError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// robotsAllowed reports whether robots.txt on the target host permits fetching
// target. A missing or unreadable robots.txt allows everything.
func (f *Fetcher) robotsAllowed(ctx context.Context, target string) (bool, error) {
	u, err := url.Parse(target)
	if err != nil {
		return false, errors.Wrap(err, "parse url")
	}
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, errors.Wrap(err, "build robots request")
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.newClient().Do(req)
	if err != nil {
		return true, nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return true, nil
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, f.userAgent()), nil
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent == "" {
		return defaultUserAgent
	}
	return f.UserAgent
}
