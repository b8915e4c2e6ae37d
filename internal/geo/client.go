// Package geo wraps the Google Places autocomplete and Distance Matrix APIs
// used by the dashboard's address workflow.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultPlacesURL   = "https://places.googleapis.com/v1/places:autocomplete"
	defaultDistanceURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
)

// Sweden bounding box used as location bias for address suggestions.
var swedenBias = rectangle{
	Low:  latLng{Latitude: 55.0, Longitude: 10.0},
	High: latLng{Latitude: 69.1, Longitude: 24.2},
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type rectangle struct {
	Low  latLng `json:"low"`
	High latLng `json:"high"`
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	PlaceID     string
	Description string
}

// Client calls the Google web services. URLs are overridable for tests.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	placesURL   string
	distanceURL string
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		placesURL:   defaultPlacesURL,
		distanceURL: defaultDistanceURL,
	}
}

// WithBaseURLs points the client at alternate endpoints. Used by tests.
func (c *Client) WithBaseURLs(placesURL, distanceURL string) *Client {
	c.placesURL = placesURL
	c.distanceURL = distanceURL
	return c
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SuggestAddresses returns autocomplete candidates for a partial address,
// biased to Sweden. An empty query yields no suggestions without a call.
func (c *Client) SuggestAddresses(ctx context.Context, input string) ([]Suggestion, error) {
	if input == "" {
		return nil, nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"input": input,
		"locationBias": map[string]interface{}{
			"rectangle": swedenBias,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.placesURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places autocomplete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places autocomplete: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Suggestions []struct {
			PlacePrediction struct {
				PlaceID string `json:"placeId"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places autocomplete: decode response: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		suggestions = append(suggestions, Suggestion{
			PlaceID:     s.PlacePrediction.PlaceID,
			Description: s.PlacePrediction.Text.Text,
		})
	}
	return suggestions, nil
}

// ErrNoRoute signals that the Distance Matrix found no driving route.
var ErrNoRoute = fmt.Errorf("no route found")

// Distance returns the driving distance between two addresses in kilometers,
// rounded to two decimals.
func (c *Client) Distance(ctx context.Context, origin, destination string) (float64, error) {
	if origin == "" || destination == "" {
		return 0, fmt.Errorf("origin and destination are required")
	}

	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("units", "metric")
	params.Set("mode", "driving")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.distanceURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("distance matrix: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("distance matrix: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Rows []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Value int `json:"value"` // meters
				} `json:"distance"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("distance matrix: decode response: %w", err)
	}

	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return 0, ErrNoRoute
	}
	element := payload.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, ErrNoRoute
	}

	km := float64(element.Distance.Value) / 1000
	return math.Round(km*100) / 100, nil
}
