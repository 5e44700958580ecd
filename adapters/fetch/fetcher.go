// Package docfetch downloads remote images for canvas drawings.
package docfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/goliatone/go-docgen/docgen"
)

const (
	// DefaultTimeout is the hard limit for one fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBytes caps a downloaded image.
	DefaultMaxBytes = 10 << 20
	// DefaultMaxPixels caps the decoded size of an image, about 40 MP.
	DefaultMaxPixels = 40_000_000
)

// ErrBlockedAddress is returned when an image URL resolves to a loopback,
// private, link-local or unspecified address and AllowPrivate is off.
var ErrBlockedAddress = errors.New("image host resolves to a non-public address")

// HTTPFetcher fetches images over HTTP(S).
type HTTPFetcher struct {
	// Client overrides the guarded client. Address checks are then the
	// caller's responsibility.
	Client    *http.Client
	Timeout   time.Duration
	MaxBytes  int64
	MaxPixels int64
	UserAgent string
	// AllowPrivate permits images served from internal networks.
	AllowPrivate bool

	once    sync.Once
	guarded *http.Client
}

// New returns a fetcher with the default limits that only dials public
// addresses.
func New() *HTTPFetcher {
	return &HTTPFetcher{Timeout: DefaultTimeout, MaxBytes: DefaultMaxBytes, MaxPixels: DefaultMaxPixels}
}

// Fetch downloads and decodes the image at url. The header is checked
// against the pixel budget before the image is decoded. Every failure
// other than a malformed url is reported as an upstream error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, docgen.NewError(docgen.KindValidation, fmt.Sprintf("unsupported image url %q", url), nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, "build image request", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("fetch %s", url), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("fetch %s: status %d", url, resp.StatusCode), nil)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("read %s", url), err)
	}
	if int64(len(raw)) > limit {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("image %s exceeds %d bytes", url, limit), nil)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("decode image from %s", url), err)
	}
	budget := f.MaxPixels
	if budget <= 0 {
		budget = DefaultMaxPixels
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > budget {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("image %s is %dx%d, over the %d pixel budget", url, cfg.Width, cfg.Height, budget), nil)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, docgen.NewError(docgen.KindUpstream, fmt.Sprintf("decode image from %s", url), err)
	}
	return img, nil
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	f.once.Do(func() {
		dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
		if !f.AllowPrivate {
			dialer.Control = refusePrivate
		}
		f.guarded = &http.Client{Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		}}
	})
	return f.guarded
}

// refusePrivate runs after name resolution, so it also covers redirects and
// hostnames that resolve to internal addresses.
func refusePrivate(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !publicAddr(addr.Unmap()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}
	return nil
}

func publicAddr(addr netip.Addr) bool {
	return !(addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified())
}
