package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"pokermoon/internal/round"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2/pokemon/"
	DefaultOffset  = 20

	maxBodyBytes = 1 << 20
)

// ErrMalformed means the catalog answered with something other than a result list.
var ErrMalformed = errors.New("malformed catalog response")

// StatusError is a non-200 catalog response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded %d %s", e.Code, http.StatusText(e.Code))
}

// RemoteConfig configures a Remote provider. Zero values take the defaults.
type RemoteConfig struct {
	BaseURL       string
	Offset        int
	ArtworkURL    string
	Timeout       time.Duration
	MaxTries      uint
	RetryInterval time.Duration
	Client        *http.Client
	Logger        zerolog.Logger
}

// Remote fetches items from a PokeAPI-style listing endpoint
// (GET {base}?offset=N&limit=M returning {"results":[{"name":...},...]}).
//
// Only results.#.name is read from the body. Network errors, 429 and 5xx are retried
// with exponential backoff; other statuses and unparsable bodies fail at once.
type Remote struct {
	baseURL       string
	offset        int
	artwork       string
	maxTries      uint
	retryInterval time.Duration
	client        *http.Client
	log           zerolog.Logger
}

// NewRemote returns a remote provider.
func NewRemote(cfg RemoteConfig) *Remote {
	r := &Remote{
		baseURL:       lo.CoalesceOrEmpty(cfg.BaseURL, DefaultBaseURL),
		offset:        cfg.Offset,
		artwork:       lo.CoalesceOrEmpty(cfg.ArtworkURL, DefaultArtworkURL),
		maxTries:      lo.CoalesceOrEmpty(cfg.MaxTries, 3),
		retryInterval: lo.CoalesceOrEmpty(cfg.RetryInterval, 250*time.Millisecond),
		client:        cfg.Client,
		log:           cfg.Logger,
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: lo.CoalesceOrEmpty(cfg.Timeout, 10*time.Second)}
	}
	return r
}

func (r *Remote) FetchItems(ctx context.Context, count int) ([]round.Item, error) {
	u, err := r.listURL(count)
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.retryInterval

	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		body, err := r.fetch(ctx, u)
		if err != nil {
			r.log.Warn().Err(err).Int("attempt", attempt).Str("url", u).Msg("catalog fetch failed")
		}
		return body, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxTries))
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	items, err := r.parse(body)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Int("requested", count).Int("received", len(items)).Msg("catalog fetched")
	return items, nil
}

func (r *Remote) listURL(count int) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("catalog url: %w", err)
	}
	q := u.Query()
	q.Set("offset", strconv.Itoa(r.offset))
	q.Set("limit", strconv.Itoa(count))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Remote) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &StatusError{Code: resp.StatusCode}
	default:
		return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (r *Remote) parse(body []byte) ([]round.Item, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}
	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: no results list", ErrMalformed)
	}
	names := lo.FilterMap(results.Array(), func(v gjson.Result, _ int) (string, bool) {
		name := strings.TrimSpace(v.Get("name").String())
		return name, name != ""
	})
	return buildItems(names, r.artwork), nil
}
