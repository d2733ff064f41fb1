// Package fetch retrieves profiles from the address they are published at.
package fetch

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jonboulle/clockwork"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
)

const (
	schemaFile = "profile.schema.json"
	// ProfilePath is where a host publishes the profiles of its users.
	ProfilePath = "/.well-known/profile/"

	maxDocumentSize = 64 << 10
)

//go:embed schema.json
var schema string

var (
	// ErrFetchFailed is returned when the profile could not be retrieved. It is distinct from
	// the profile being absent, which is reported as a state without a profile.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrInvalidAddress is returned for addresses that are not of the form user@host.
	ErrInvalidAddress = errors.New("invalid address")
)

type Config struct {
	// Scheme of profile URLs.
	Scheme string `mapstructure:"scheme"`
	// Timeout bounds a single fetch including retries.
	Timeout time.Duration `mapstructure:"timeout"`
	// RetryMax is the number of retries after a failed request. Retries are off by default.
	RetryMax  int           `mapstructure:"retry-max"`
	RetryWait time.Duration `mapstructure:"retry-wait"`
}

func DefaultConfig() Config {
	return Config{
		Scheme:    "https",
		Timeout:   10 * time.Second,
		RetryMax:  0,
		RetryWait: 500 * time.Millisecond,
	}
}

// document is the published form of a profile.
type document struct {
	FullName            string    `json:"fullName"`
	Hometown            string    `json:"hometown"`
	CountryCode         string    `json:"countryCode"`
	Services            []string  `json:"services"`
	Signature           []byte    `json:"signature"`
	SubmissionTimestamp time.Time `json:"submissionTimestamp"`
}

// Encode returns the published form of the profile.
func Encode(p *types.Profile) ([]byte, error) {
	return json.Marshal(document{
		FullName:            p.FullName,
		Hometown:            p.Hometown,
		CountryCode:         p.CountryCode,
		Services:            p.Services,
		Signature:           p.Signature,
		SubmissionTimestamp: p.SubmissionTimestamp,
	})
}

// A wrapper around zap.Logger to make it compatible with
// retryablehttp.LeveledLogger interface.
type retryableHttpLogger struct {
	inner *zap.Logger
}

func (r retryableHttpLogger) Error(format string, args ...any) {
	r.inner.Sugar().Errorw(format, args...)
}

func (r retryableHttpLogger) Info(format string, args ...any) {
	r.inner.Sugar().Infow(format, args...)
}

func (r retryableHttpLogger) Warn(format string, args ...any) {
	r.inner.Sugar().Warnw(format, args...)
}

func (r retryableHttpLogger) Debug(format string, args ...any) {
	r.inner.Sugar().Debugw(format, args...)
}

type Opt func(*Fetcher)

func WithLogger(logger *zap.Logger) Opt {
	return func(f *Fetcher) {
		f.logger = logger
		f.client.Logger = &retryableHttpLogger{inner: logger}
	}
}

func WithConfig(cfg Config) Opt {
	return func(f *Fetcher) {
		f.cfg = cfg
	}
}

func WithClock(clock clockwork.Clock) Opt {
	return func(f *Fetcher) {
		f.clock = clock
	}
}

func withHttpClient(client *http.Client) Opt {
	return func(f *Fetcher) {
		f.client.HTTPClient = client
	}
}

// Fetcher retrieves profiles over HTTP.
type Fetcher struct {
	logger *zap.Logger
	cfg    Config
	clock  clockwork.Clock
	client *retryablehttp.Client
	schema *jsonschema.Schema
}

func New(opts ...Opt) (*Fetcher, error) {
	sch, err := jsonschema.CompileString(schemaFile, schema)
	if err != nil {
		return nil, fmt.Errorf("compile profile json schema: %w", err)
	}
	f := &Fetcher{
		logger: zap.NewNop(),
		cfg:    DefaultConfig(),
		clock:  clockwork.NewRealClock(),
		client: retryablehttp.NewClient(),
		schema: sch,
	}
	f.client.Logger = nil
	for _, opt := range opts {
		opt(f)
	}
	f.client.RetryMax = f.cfg.RetryMax
	f.client.RetryWaitMin = f.cfg.RetryWait
	f.client.RetryWaitMax = 2 * f.cfg.RetryWait
	f.client.Backoff = retryablehttp.LinearJitterBackoff
	return f, nil
}

// ProfileURL returns the URL the profile of address user@host is published at.
func (f *Fetcher) ProfileURL(address string) (*url.URL, error) {
	user, host, found := strings.Cut(address, "@")
	if !found || user == "" || host == "" || strings.ContainsAny(host, "/@?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return &url.URL{
		Scheme: f.cfg.Scheme,
		Host:   host,
		Path:   ProfilePath + user,
	}, nil
}

// Fetch retrieves the current state of the address. An address without a published
// profile yields a state without a profile.
func (f *Fetcher) Fetch(ctx context.Context, address string) (types.State, error) {
	state, err := f.fetch(ctx, address)
	if err != nil {
		fetchFailures.Inc()
		return types.State{}, err
	}
	if state.HasProfile() {
		fetchedProfiles.Inc()
	} else {
		fetchedAbsent.Inc()
	}
	return state, nil
}

func (f *Fetcher) fetch(ctx context.Context, address string) (types.State, error) {
	resource, err := f.ProfileURL(address)
	if err != nil {
		return types.State{}, err
	}
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, resource.String(), nil)
	if err != nil {
		return types.State{}, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		return types.State{}, fmt.Errorf("%w: %s: %w", ErrFetchFailed, address, err)
	}
	defer res.Body.Close()
	retrieved := f.clock.Now()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		f.logger.Debug("profile absent",
			zap.String("address", address),
			zap.Int("status", res.StatusCode),
		)
		return types.State{Address: address, RetrievalTimestamp: retrieved}, nil
	default:
		return types.State{}, fmt.Errorf("%w: %s: response status %s", ErrFetchFailed, address, res.Status)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentSize+1))
	if err != nil {
		return types.State{}, fmt.Errorf("%w: %s: read response: %w", ErrFetchFailed, address, err)
	}
	if len(data) > maxDocumentSize {
		return types.State{}, fmt.Errorf("%w: %s: document exceeds %d bytes", ErrFetchFailed, address, maxDocumentSize)
	}
	profile, err := f.decode(data)
	if err != nil {
		return types.State{}, fmt.Errorf("%w: %s: %w", ErrFetchFailed, address, err)
	}
	return types.State{
		Address:            address,
		RetrievalTimestamp: retrieved,
		Profile:            profile,
	}, nil
}

func (f *Fetcher) decode(data []byte) (*types.Profile, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := f.schema.Validate(v); err != nil {
		return nil, fmt.Errorf("validate profile: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &types.Profile{
		FullName:            doc.FullName,
		Hometown:            doc.Hometown,
		CountryCode:         doc.CountryCode,
		Services:            doc.Services,
		Signature:           doc.Signature,
		SubmissionTimestamp: doc.SubmissionTimestamp,
	}, nil
}
