package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPWalkingProvider calls a REST pedestrian-directions API. Shares the
// same plain JSON GET shape as HTTPCarProvider, since most routing
// backends expose walking as just another costing profile.
type HTTPWalkingProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPWalkingProvider(baseURL, apiKey string) *HTTPWalkingProvider {
	return &HTTPWalkingProvider{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}}
}

type walkAPIResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationMinutes float64 `json:"duration_minutes"`
	Polyline        string  `json:"polyline"`
}

func (p *HTTPWalkingProvider) GetWalkingRoute(ctx context.Context, origin, destination LatLng) (WalkRoute, error) {
	url := fmt.Sprintf("%s/route?origin=%f,%f&destination=%f,%f&costing=pedestrian&key=%s",
		p.BaseURL, origin.Lat, origin.Lng, destination.Lat, destination.Lng, p.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return WalkRoute{}, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return WalkRoute{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WalkRoute{}, fmt.Errorf("providers: walking routing API returned status %d", resp.StatusCode)
	}

	var apiResp walkAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return WalkRoute{}, fmt.Errorf("providers: decoding walking route response: %w", err)
	}

	return WalkRoute{
		DistanceMeters:  apiResp.DistanceMeters,
		DurationMinutes: apiResp.DurationMinutes,
		Polyline:        apiResp.Polyline,
	}, nil
}
