package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkordes/ski-weather/internal/domain"
)

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

// Search asks the geocoding service for up to count places matching name,
// in upstream relevance order. A response without results is an empty slice.
func (c *Client) Search(ctx context.Context, name string, count int) ([]domain.Resort, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", "en")
	params.Set("format", "json")

	var payload geocodingResponse
	if err := c.getJSON(ctx, c.geoBreaker, c.geocodingURL+"/v1/search", params, &payload); err != nil {
		return nil, fmt.Errorf("openmeteo.Client.Search: %w", err)
	}

	resorts := make([]domain.Resort, 0, len(payload.Results))
	for _, r := range payload.Results {
		var externalID string
		if r.ID != 0 {
			externalID = strconv.FormatInt(r.ID, 10)
		}
		resorts = append(resorts, domain.Resort{
			ExternalID: externalID,
			Name:       r.Name,
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			Country:    r.Country,
			Region:     r.Admin1,
			Slug:       domain.Slugify(r.Name + " " + r.Admin1),
		})
	}
	return resorts, nil
}
