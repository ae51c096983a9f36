package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"mediasort/internal/services"
)

// Result represents a single TMDB search match or detail payload.
type Result struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Name          string  `json:"name"`
	OriginalTitle string  `json:"original_title"`
	OriginalName  string  `json:"original_name"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	FirstAirDate  string  `json:"first_air_date"`
	MediaType     string  `json:"media_type"`
	GenreIDs      []int64 `json:"genre_ids"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
	Adult         bool    `json:"adult"`
}

// DisplayTitle returns the localized title for either media type.
func (r *Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// OriginalDisplayTitle returns the original-language title for either media type.
func (r *Result) OriginalDisplayTitle() string {
	if r.OriginalTitle != "" {
		return r.OriginalTitle
	}
	return r.OriginalName
}

// Year returns the release or first-air year, or zero when unknown.
func (r *Result) Year() int {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre is a named TMDB genre from a detail payload.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CertEntry is one certification record inside a country block.
type CertEntry struct {
	Certification string `json:"certification"`
}

// CertBlock groups certifications by country. Movie blocks carry
// release_dates entries; TV blocks carry a single rating string.
type CertBlock struct {
	Country      string      `json:"iso_3166_1"`
	ReleaseDates []CertEntry `json:"release_dates"`
	Rating       string      `json:"rating"`
}

// Details is a full movie or TV payload with genres and certifications
// appended in a single request.
type Details struct {
	Result
	Genres         []Genre    `json:"genres"`
	ReleaseDates   certBundle `json:"release_dates"`
	ContentRatings certBundle `json:"content_ratings"`
}

type certBundle struct {
	Results []CertBlock `json:"results"`
}

// CertBlocks returns whichever certification block set the payload carries.
func (d *Details) CertBlocks() []CertBlock {
	if len(d.ReleaseDates.Results) > 0 {
		return d.ReleaseDates.Results
	}
	return d.ContentRatings.Results
}

// GenreNames returns the non-empty genre names of a detail payload.
func (d *Details) GenreNames() []string {
	var names []string
	for _, g := range d.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// AlternativeTitle is one localized alternative title.
type AlternativeTitle struct {
	Country string `json:"iso_3166_1"`
	Title   string `json:"title"`
}

type altTitlesResponse struct {
	Titles  []AlternativeTitle `json:"titles"`  // movie form
	Results []AlternativeTitle `json:"results"` // tv form
}

type findResponse struct {
	MovieResults []Result `json:"movie_results"`
	TVResults    []Result `json:"tv_results"`
}

// SearchOptions contains optional parameters for a TMDB search.
type SearchOptions struct {
	Year         int
	Language     string
	IncludeAdult bool
}

// Searcher defines the TMDB operations used by the classification engine.
type Searcher interface {
	SearchMovie(ctx context.Context, query string, opts SearchOptions) (*Response, error)
	SearchTV(ctx context.Context, query string, opts SearchOptions) (*Response, error)
	SearchMulti(ctx context.Context, query string, opts SearchOptions) (*Response, error)
	FindByIMDbID(ctx context.Context, imdbID string) (*Result, error)
	MovieDetails(ctx context.Context, movieID int64, language string) (*Details, error)
	TVDetails(ctx context.Context, showID int64, language string) (*Details, error)
	AlternativeTitles(ctx context.Context, mediaType string, id int64) ([]AlternativeTitle, error)
	TitleInLanguage(ctx context.Context, mediaType string, id int64, language string) (string, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	attempts   uint
	retryDelay time.Duration
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetry sets the attempt count and the fixed delay between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = uint(attempts)
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// New creates a TMDB client. The language is the default for searches and
// detail fetches; individual calls may override it.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		attempts:   3,
		retryDelay: 2 * time.Second,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type httpStatusError struct {
	status  int
	latency time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("tmdb returned %d (latency=%v)", e.status, e.latency)
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// getJSON performs one GET against path with params, retrying transient
// failures, and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
			}
			requestStart := time.Now()
			resp, err := c.httpClient.Do(req)
			latency := time.Since(requestStart)
			if err != nil {
				return fmt.Errorf("execute request (latency=%v): %w", latency, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				statusErr := &httpStatusError{status: resp.StatusCode, latency: latency}
				if retryableStatus(resp.StatusCode) {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode tmdb response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err == nil {
		return nil
	}
	return classifyError(path, err)
}

// classifyError tags request failures with the service error markers so
// callers can distinguish configuration problems from remote flakiness.
func classifyError(path string, err error) error {
	var statusErr *httpStatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, "tmdb", path, "request timed out", err)
	case errors.As(err, &statusErr):
		switch {
		case statusErr.status == http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "tmdb", path, "", err)
		case statusErr.status == http.StatusUnauthorized || statusErr.status == http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "tmdb", path, "check the API key", err)
		case retryableStatus(statusErr.status):
			return services.Wrap(services.ErrTransient, "tmdb", path, "remote failure persisted", err)
		}
		return services.Wrap(services.ErrValidation, "tmdb", path, "", err)
	}
	return services.Wrap(services.ErrTransient, "tmdb", path, "", err)
}

func (c *Client) searchParams(query string, opts SearchOptions) url.Values {
	params := url.Values{}
	params.Set("query", query)
	lang := opts.Language
	if lang == "" {
		lang = c.language
	}
	if lang != "" {
		params.Set("language", lang)
	}
	params.Set("include_adult", strconv.FormatBool(opts.IncludeAdult))
	return params
}

// SearchMovie performs a TMDB movie search.
func (c *Client) SearchMovie(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := c.searchParams(query, opts)
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}
	var payload Response
	if err := c.getJSON(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchTV performs a TMDB TV search.
func (c *Client) SearchTV(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := c.searchParams(query, opts)
	if opts.Year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(opts.Year))
	}
	var payload Response
	if err := c.getJSON(ctx, "/search/tv", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchMulti performs a TMDB multi search across media types. Year filters
// are not supported by the endpoint and are ignored.
func (c *Client) SearchMulti(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := c.searchParams(query, opts)
	var payload Response
	if err := c.getJSON(ctx, "/search/multi", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FindByIMDbID resolves an IMDb tt-ID to a TMDB result. Movie results win
// over TV results; a nil result means the ID is unknown.
func (c *Client) FindByIMDbID(ctx context.Context, imdbID string) (*Result, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, errors.New("imdb id must not be empty")
	}
	params := url.Values{}
	params.Set("external_source", "imdb_id")
	var payload findResponse
	if err := c.getJSON(ctx, "/find/"+url.PathEscape(imdbID), params, &payload); err != nil {
		return nil, err
	}
	if len(payload.MovieResults) > 0 {
		r := payload.MovieResults[0]
		r.MediaType = "movie"
		return &r, nil
	}
	if len(payload.TVResults) > 0 {
		r := payload.TVResults[0]
		r.MediaType = "tv"
		return &r, nil
	}
	return nil, nil
}

// MovieDetails fetches movie details with release dates appended.
func (c *Client) MovieDetails(ctx context.Context, movieID int64, language string) (*Details, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	if language == "" {
		language = c.language
	}
	if language != "" {
		params.Set("language", language)
	}
	params.Set("append_to_response", "release_dates")
	var payload Details
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, err
	}
	payload.MediaType = "movie"
	return &payload, nil
}

// TVDetails fetches TV show details with content ratings appended.
func (c *Client) TVDetails(ctx context.Context, showID int64, language string) (*Details, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	params := url.Values{}
	if language == "" {
		language = c.language
	}
	if language != "" {
		params.Set("language", language)
	}
	params.Set("append_to_response", "content_ratings")
	var payload Details
	if err := c.getJSON(ctx, fmt.Sprintf("/tv/%d", showID), params, &payload); err != nil {
		return nil, err
	}
	payload.MediaType = "tv"
	return &payload, nil
}

// AlternativeTitles fetches localized alternative titles for a movie or show.
func (c *Client) AlternativeTitles(ctx context.Context, mediaType string, id int64) ([]AlternativeTitle, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}
	if id <= 0 {
		return nil, errors.New("id must be positive")
	}
	var payload altTitlesResponse
	path := fmt.Sprintf("/%s/%d/alternative_titles", mediaType, id)
	if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	if mediaType == "movie" {
		return payload.Titles, nil
	}
	return payload.Results, nil
}

// TitleInLanguage fetches the display title of a movie or show localized to
// the given language.
func (c *Client) TitleInLanguage(ctx context.Context, mediaType string, id int64, language string) (string, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return "", fmt.Errorf("unsupported media type %q", mediaType)
	}
	if id <= 0 {
		return "", errors.New("id must be positive")
	}
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	var payload Result
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d", mediaType, id), params, &payload); err != nil {
		return "", err
	}
	if mediaType == "movie" {
		if payload.Title != "" {
			return payload.Title, nil
		}
		return payload.OriginalTitle, nil
	}
	if payload.Name != "" {
		return payload.Name, nil
	}
	return payload.OriginalName, nil
}
