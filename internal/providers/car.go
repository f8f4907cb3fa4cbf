package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPCarProvider calls a REST driving-directions API, grounded on
// angelodlfrtr-valhalla's costing-model request shape (origin/destination
// + a named costing profile) generalized to a plain JSON GET.
type HTTPCarProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPCarProvider(baseURL, apiKey string) *HTTPCarProvider {
	return &HTTPCarProvider{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}}
}

type carAPIResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationMinutes float64 `json:"duration_minutes"`
	Polyline        string  `json:"polyline"`
}

func (p *HTTPCarProvider) GetCarRoute(ctx context.Context, origin, destination LatLng) (CarRoute, error) {
	url := fmt.Sprintf("%s/route?origin=%f,%f&destination=%f,%f&costing=auto&key=%s",
		p.BaseURL, origin.Lat, origin.Lng, destination.Lat, destination.Lng, p.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return CarRoute{}, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return CarRoute{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CarRoute{}, fmt.Errorf("providers: car routing API returned status %d", resp.StatusCode)
	}

	var apiResp carAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return CarRoute{}, fmt.Errorf("providers: decoding car route response: %w", err)
	}

	return CarRoute{
		DistanceMeters:  apiResp.DistanceMeters,
		DurationMinutes: apiResp.DurationMinutes,
		Polyline:        apiResp.Polyline,
	}, nil
}
