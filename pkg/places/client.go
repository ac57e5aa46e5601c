// Package places is the HTTP client for the external place directory
// (Google Places API v1). It exposes the three operations the verification
// pipeline consumes: nearby search, text search, and place details.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/internal/resilience"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// searchFieldMask limits search responses to the fields the adjudicator and
// merge engine consume.
const searchFieldMask = "places.id,places.displayName,places.location," +
	"places.rating,places.userRatingCount,places.formattedAddress,places.types," +
	"places.photos,places.editorialSummary,places.internationalPhoneNumber,places.websiteUri"

const detailFieldMask = "id,displayName,location,rating,userRatingCount," +
	"formattedAddress,types,photos,editorialSummary,internationalPhoneNumber,websiteUri"

// defaultIncludedTypes restricts nearby search to the place categories the
// local dataset curates.
var defaultIncludedTypes = []string{
	"tourist_attraction",
	"museum",
	"park",
	"restaurant",
	"cafe",
	"historical_landmark",
	"place_of_worship",
}

// Client performs place directory lookups. All operations may return a
// resilience.RateLimitError (explicit rate-limit signal) or a transient
// error; callers decide whether to skip, cool down, or fail the record.
type Client interface {
	SearchNearby(ctx context.Context, lat, lng float64, radiusM float64) ([]model.Candidate, error)
	SearchText(ctx context.Context, query string, lat, lng float64, biasRadiusM float64) ([]model.Candidate, error)
	GetDetails(ctx context.Context, placeID string) (*model.Candidate, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithIncludedTypes overrides the place categories nearby search is
// restricted to.
func WithIncludedTypes(types []string) Option {
	return func(c *httpClient) {
		if len(types) > 0 {
			c.includedTypes = types
		}
	}
}

// WithMaxResults caps the number of candidates per search response.
func WithMaxResults(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

type httpClient struct {
	apiKey        string
	baseURL       string
	includedTypes []string
	maxResults    int
	http          *http.Client
}

// NewClient creates a place directory client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		includedTypes: defaultIncludedTypes,
		maxResults:    10,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type nearbySearchRequest struct {
	IncludedTypes       []string `json:"includedTypes,omitempty"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle circle `json:"circle"`
	} `json:"locationRestriction"`
}

type textSearchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
	LocationBias   struct {
		Circle circle `json:"circle"`
	} `json:"locationBias"`
}

type searchResponse struct {
	Places []place `json:"places"`
}

type place struct {
	ID               string        `json:"id"`
	DisplayName      localizedText `json:"displayName"`
	Location         latLng        `json:"location"`
	Rating           float64       `json:"rating"`
	UserRatingCount  int           `json:"userRatingCount"`
	FormattedAddress string        `json:"formattedAddress"`
	Types            []string      `json:"types"`
	Photos           []photo       `json:"photos"`
	EditorialSummary localizedText `json:"editorialSummary"`
	PhoneNumber      string        `json:"internationalPhoneNumber"`
	WebsiteURI       string        `json:"websiteUri"`
}

type localizedText struct {
	Text string `json:"text"`
}

type photo struct {
	Name string `json:"name"`
}

func (p place) candidate() model.Candidate {
	c := model.Candidate{
		PlaceID:     p.ID,
		Name:        p.DisplayName.Text,
		Lat:         p.Location.Latitude,
		Lng:         p.Location.Longitude,
		Rating:      p.Rating,
		RatingCount: p.UserRatingCount,
		Address:     p.FormattedAddress,
		Phone:       p.PhoneNumber,
		Website:     p.WebsiteURI,
		Summary:     p.EditorialSummary.Text,
		Types:       p.Types,
	}
	for _, ph := range p.Photos {
		if ph.Name != "" {
			c.PhotoRefs = append(c.PhotoRefs, ph.Name)
		}
	}
	return c
}

func (c *httpClient) SearchNearby(ctx context.Context, lat, lng float64, radiusM float64) ([]model.Candidate, error) {
	req := nearbySearchRequest{
		IncludedTypes:  c.includedTypes,
		MaxResultCount: c.maxResults,
	}
	req.LocationRestriction.Circle = circle{Center: latLng{Latitude: lat, Longitude: lng}, Radius: radiusM}

	var resp searchResponse
	if err := c.post(ctx, "/places:searchNearby", searchFieldMask, req, &resp); err != nil {
		return nil, eris.Wrap(err, "places: nearby search")
	}

	return candidates(resp.Places), nil
}

func (c *httpClient) SearchText(ctx context.Context, query string, lat, lng float64, biasRadiusM float64) ([]model.Candidate, error) {
	req := textSearchRequest{
		TextQuery:      query,
		MaxResultCount: c.maxResults,
	}
	req.LocationBias.Circle = circle{Center: latLng{Latitude: lat, Longitude: lng}, Radius: biasRadiusM}

	var resp searchResponse
	if err := c.post(ctx, "/places:searchText", searchFieldMask, req, &resp); err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}

	return candidates(resp.Places), nil
}

func (c *httpClient) GetDetails(ctx context.Context, placeID string) (*model.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places/"+placeID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create details request")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", detailFieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: send details request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read details response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return nil, eris.Wrap(err, "places: get details")
	}

	var p place
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal details")
	}

	cand := p.candidate()
	return &cand, nil
}

func (c *httpClient) post(ctx context.Context, path, fieldMask string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return err
	}

	return eris.Wrap(json.Unmarshal(respBody, out), "unmarshal response")
}

// statusError maps a non-2xx response to the error taxonomy: 429 is an
// explicit rate-limit signal, 5xx/408 are transient, everything else is
// a plain failure.
func statusError(code int, body []byte) error {
	if code == http.StatusOK {
		return nil
	}
	err := eris.Errorf("unexpected status %d: %s", code, string(body))
	if code == http.StatusTooManyRequests {
		return resilience.NewRateLimitError(err)
	}
	if resilience.IsTransientHTTPStatus(code) {
		return resilience.NewTransientError(err, code)
	}
	return err
}

func candidates(ps []place) []model.Candidate {
	out := make([]model.Candidate, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.candidate())
	}
	return out
}

// PhotoURL builds the media URL for a photo reference at a fixed width.
// The resulting URL is stable, so the output file can deduplicate on the
// exact string.
func PhotoURL(ref string, widthPx int) string {
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d", defaultBaseURL, ref, widthPx)
}
