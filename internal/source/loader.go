// SPDX-License-Identifier: MIT

// Package source retrieves playlist text from remote URLs, local files and
// uploads, parses it and publishes the resulting catalog.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/config"
	xglog "github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/m3u"
	"github.com/ManuGH/m3ucat/internal/metrics"
	"github.com/ManuGH/m3ucat/internal/telemetry"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 64 << 20
	defaultUserAgent    = "m3ucat"
	// loadAllConcurrency bounds parallel source loads at startup.
	loadAllConcurrency = 4
)

var errTooLarge = errors.New("content exceeds size limit")

// Options configures a Loader.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	// RatePerSecond limits outbound retrievals; 0 disables the limiter.
	RatePerSecond float64
	Burst         int
	// HTTPClient replaces the default instrumented client.
	HTTPClient *http.Client
}

// OptionsFromConfig maps the fetch configuration to loader options.
func OptionsFromConfig(cfg config.FetchConfig) Options {
	return Options{
		Timeout:       cfg.Timeout,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		UserAgent:     cfg.UserAgent,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}
}

// Loader turns playlist sources into catalogs. It is safe for concurrent use.
type Loader struct {
	client    *http.Client
	limiter   *rate.Limiter
	maxBytes  int64
	userAgent string
	store     *catalog.Store
	group     singleflight.Group
	tracer    trace.Tracer
}

// NewLoader creates a loader. store may be nil when catalogs are not
// published (one-shot parsing).
func NewLoader(opts Options, store *catalog.Store) *Loader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := opts.HTTPClient
	if client == nil {
		transport := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: opts.Timeout,
			TLSHandshakeTimeout:   10 * time.Second,
		}
		client = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		}
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	return &Loader{
		client:    client,
		limiter:   limiter,
		maxBytes:  opts.MaxBodyBytes,
		userAgent: opts.UserAgent,
		store:     store,
		tracer:    telemetry.Tracer("m3ucat.source"),
	}
}

// result is one successful load before it is handed to the caller.
type result struct {
	catalog     catalog.Catalog
	bytes       int
	charset     string
	compression string
}

// LoadRemote retrieves uri and parses its body. A non-2xx answer or a
// transport failure yields a *RetrievalError. Concurrent loads of the same
// uri share one retrieval.
func (l *Loader) LoadRemote(ctx context.Context, uri string) (catalog.Catalog, error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "source.load_remote",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.LoadAttributes(xglog.SourceFromContext(ctx), metrics.KindRemote, config.MaskURL(uri))...))
	defer span.End()

	// The shared retrieval must not die with the first caller's context;
	// the client timeout bounds it instead.
	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(uri, func() (any, error) {
		return l.fetch(detached, uri)
	})

	var (
		res result
		err error
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case r := <-ch:
		err = r.Err
		if err == nil {
			res = r.Val.(result)
		}
	}

	l.observe(ctx, span, metrics.KindRemote, uri, start, res, err)
	return res.catalog, err
}

func (l *Loader) fetch(ctx context.Context, uri string) (result, error) {
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return result{}, &RetrievalError{URI: config.MaskURL(uri), Status: "invalid URL", Err: err}
	}

	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return result{}, &RetrievalError{URI: config.MaskURL(uri), Status: "rate limited", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return result{}, &RetrievalError{URI: config.MaskURL(uri), Status: "invalid request", Err: err}
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "audio/x-mpegurl, application/vnd.apple.mpegurl, text/plain;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return result{}, &RetrievalError{URI: config.MaskURL(uri), Status: "unreachable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result{}, &RetrievalError{
			URI:        config.MaskURL(uri),
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return result{}, &RetrievalError{URI: config.MaskURL(uri), StatusCode: resp.StatusCode, Status: "body read failed", Err: err}
	}
	if int64(len(raw)) > l.maxBytes {
		return result{}, &RetrievalError{
			URI:        config.MaskURL(uri),
			StatusCode: resp.StatusCode,
			Status:     fmt.Sprintf("response body exceeds %d bytes", l.maxBytes),
			Err:        errTooLarge,
		}
	}

	return parse(config.MaskURL(uri), raw, resp.Header.Get("Content-Type"))
}

// statusText is the server's reason phrase, or the standard one when the
// server sent none.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = "HTTP " + strconv.Itoa(resp.StatusCode)
	}
	return text
}

// LoadLocal reads the playlist file at path. The extension is checked
// before the file is opened.
func (l *Loader) LoadLocal(ctx context.Context, path string) (catalog.Catalog, error) {
	return l.loadLocal(ctx, metrics.KindLocal, path)
}

func (l *Loader) loadLocal(ctx context.Context, kind, path string) (catalog.Catalog, error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "source.load_local",
		trace.WithAttributes(telemetry.LoadAttributes(xglog.SourceFromContext(ctx), kind, path)...))
	defer span.End()

	res, err := l.readLocal(ctx, path)
	l.observe(ctx, span, kind, path, start, res, err)
	return res.catalog, err
}

func (l *Loader) readLocal(ctx context.Context, path string) (result, error) {
	if err := ValidateExtension(path); err != nil {
		return result{}, err
	}
	if err := ctx.Err(); err != nil {
		return result{}, err
	}
	// #nosec G304 -- playlist paths come from operator configuration
	f, err := os.Open(path)
	if err != nil {
		return result{}, &ReadError{Name: path, Err: err}
	}
	defer func() { _ = f.Close() }()
	return l.read(ctx, path, f)
}

// LoadFile parses an uploaded playlist. name is the client-supplied file
// name and is only used for the extension check and error messages.
func (l *Loader) LoadFile(ctx context.Context, name string, r io.Reader) (catalog.Catalog, error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "source.load_file",
		trace.WithAttributes(telemetry.LoadAttributes(xglog.SourceFromContext(ctx), metrics.KindLocal, name)...))
	defer span.End()

	var (
		res result
		err error
	)
	if err = ValidateExtension(name); err == nil {
		res, err = l.read(ctx, name, r)
	}
	l.observe(ctx, span, metrics.KindLocal, name, start, res, err)
	return res.catalog, err
}

func (l *Loader) read(ctx context.Context, name string, r io.Reader) (result, error) {
	raw, err := io.ReadAll(io.LimitReader(ctxReader{ctx: ctx, r: r}, l.maxBytes+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result{}, ctxErr
		}
		return result{}, &ReadError{Name: name, Err: err}
	}
	if int64(len(raw)) > l.maxBytes {
		return result{}, &ReadError{Name: name, Err: errTooLarge}
	}
	return parse(name, raw, "")
}

func parse(name string, raw []byte, contentType string) (result, error) {
	dec, err := decodeText(raw, contentType)
	if err != nil {
		return result{}, &ReadError{Name: name, Err: err}
	}
	// The body is already bounded by maxBytes, so it is parsed whole and no
	// line length limit applies.
	return result{
		catalog:     catalog.Build(m3u.Parse(string(dec.text))),
		bytes:       len(raw),
		charset:     dec.charset,
		compression: dec.compression,
	}, nil
}

// observe records metrics, span status and a log line for one load.
func (l *Loader) observe(ctx context.Context, span trace.Span, kind, target string, start time.Time, res result, err error) {
	elapsed := time.Since(start)
	outcome := Outcome(err)
	metrics.RecordLoad(kind, outcome, elapsed.Seconds())

	logger := xglog.WithComponentFromContext(ctx, "source")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(telemetry.ErrorAttributes(outcome)...)

		evt := logger.Warn()
		if outcome == metrics.OutcomeCanceled {
			evt = logger.Debug()
		}
		evt.Err(err).
			Str(xglog.FieldEvent, "source."+outcome).
			Str("kind", kind).
			Str("target", config.MaskURL(target)).
			Int64(xglog.FieldDurationMS, elapsed.Milliseconds()).
			Msg("playlist load failed")
		return
	}

	metrics.RecordLoadBytes(kind, res.bytes)
	span.SetAttributes(telemetry.ResultAttributes(res.bytes, res.catalog.TotalChannels, distinctCategories(res.catalog))...)
	span.SetAttributes(telemetry.EncodingAttributes(res.charset, res.compression)...)
	logger.Info().
		Str(xglog.FieldEvent, "source.load_"+kind).
		Str("target", config.MaskURL(target)).
		Int(xglog.FieldChannels, res.catalog.TotalChannels).
		Int(xglog.FieldCategories, distinctCategories(res.catalog)).
		Str("charset", res.charset).
		Str("compression", res.compression).
		Int64(xglog.FieldDurationMS, elapsed.Milliseconds()).
		Msg("playlist loaded")
}

// distinctCategories excludes the synthetic aggregate entry.
func distinctCategories(c catalog.Catalog) int {
	n := 0
	for _, cat := range c.Categories {
		if cat.ID != catalog.AllID {
			n++
		}
	}
	return n
}

// LoadSource loads one configured source and publishes the catalog under
// its name.
func (l *Loader) LoadSource(ctx context.Context, src config.SourceConfig) (catalog.Catalog, error) {
	return l.loadSource(ctx, src, "")
}

func (l *Loader) loadSource(ctx context.Context, src config.SourceConfig, kind string) (catalog.Catalog, error) {
	ctx = xglog.ContextWithSource(ctx, src.Name)

	var (
		cat catalog.Catalog
		err error
	)
	switch {
	case src.IsRemote():
		cat, err = l.LoadRemote(ctx, src.URL)
	case kind != "":
		cat, err = l.loadLocal(ctx, kind, src.Path)
	default:
		cat, err = l.LoadLocal(ctx, src.Path)
	}
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("source %s: %w", src.Name, err)
	}
	l.Publish(ctx, src.Name, cat)
	return cat, nil
}

// Publish stores cat under name and records its catalog metrics.
func (l *Loader) Publish(ctx context.Context, name string, cat catalog.Catalog) {
	l.publish(ctx, name, cat, func() bool {
		if l.store != nil {
			l.store.Set(name, cat)
		}
		return true
	})
}

// PublishBounded is Publish for names that may be new to the store. Once the
// store holds limit catalogs a new name is refused with ErrSourceLimit and
// nothing is recorded.
func (l *Loader) PublishBounded(ctx context.Context, name string, cat catalog.Catalog, limit int) error {
	ok := l.publish(ctx, name, cat, func() bool {
		return l.store == nil || l.store.SetBounded(name, cat, limit)
	})
	if !ok {
		return fmt.Errorf("%w: %d sources loaded", ErrSourceLimit, limit)
	}
	return nil
}

func (l *Loader) publish(ctx context.Context, name string, cat catalog.Catalog, store func() bool) bool {
	if !store() {
		return false
	}

	var hd, sd, radio int
	for _, ch := range cat.Channels {
		switch {
		case ch.RadioStation:
			radio++
		case ch.IsHD:
			hd++
		default:
			sd++
		}
	}
	metrics.RecordCatalog(name, cat.TotalChannels, distinctCategories(cat))
	metrics.RecordChannelTypeCounts(name, hd, sd, radio)

	logger := xglog.WithComponentFromContext(ctx, "source")
	logger.Debug().
		Str(xglog.FieldEvent, "source.published").
		Str(xglog.FieldSource, name).
		Int(xglog.FieldChannels, cat.TotalChannels).
		Msg("catalog published")
	return true
}

// LoadAll loads every source concurrently. A failing source does not stop
// the others; all failures are joined into the returned error.
func (l *Loader) LoadAll(ctx context.Context, sources []config.SourceConfig) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadAllConcurrency)
	for _, src := range sources {
		g.Go(func() error {
			if _, err := l.LoadSource(gctx, src); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// ctxReader stops a read loop once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
