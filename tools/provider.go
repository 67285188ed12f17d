// Package tools is the catalog of functions the agent may invoke. Each tool
// wraps exactly one outbound HTTP call to a mapping/search provider and
// returns parsed JSON, or nil when the upstream failed. No retries, no
// caching; units are metric unless the caller asks otherwise.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/k3053/GeoInsight.AI/mcp"
)

// Endpoints are the upstream URLs a Provider talks to. Tests point them at
// local stubs; production uses the defaults.
type Endpoints struct {
	Geocode        string
	DistanceMatrix string
	Geolocation    string
	AirQuality     string
	Weather        string
	DailyForecast  string
	HourlyForecast string
	PlacesText     string
	PlacesNearby   string
	AreaInsights   string
	SerpAPI        string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Geocode:        "https://maps.googleapis.com/maps/api/geocode/json",
		DistanceMatrix: "https://maps.googleapis.com/maps/api/distancematrix/json",
		Geolocation:    "https://www.googleapis.com/geolocation/v1/geolocate",
		AirQuality:     "https://airquality.googleapis.com/v1/currentConditions:lookup",
		Weather:        "https://weather.googleapis.com/v1/currentConditions:lookup",
		DailyForecast:  "https://weather.googleapis.com/v1/forecast/days:lookup",
		HourlyForecast: "https://weather.googleapis.com/v1/forecast/hours:lookup",
		PlacesText:     "https://places.googleapis.com/v1/places:searchText",
		PlacesNearby:   "https://places.googleapis.com/v1/places:searchNearby",
		AreaInsights:   "https://areainsights.googleapis.com/v1:computeInsights",
		SerpAPI:        "https://serpapi.com/search.json",
	}
}

// Provider holds the shared HTTP client and API keys for every tool.
type Provider struct {
	client    *resty.Client
	mapsKey   string
	serpKey   string
	endpoints Endpoints
}

func NewProvider(mapsKey, serpKey string) *Provider {
	return &Provider{
		client:    resty.New().SetTimeout(30 * time.Second),
		mapsKey:   mapsKey,
		serpKey:   serpKey,
		endpoints: DefaultEndpoints(),
	}
}

// SetEndpoints overrides the upstream URLs; zero-value fields keep defaults.
func (p *Provider) SetEndpoints(e Endpoints) {
	defaults := DefaultEndpoints()
	if e.Geocode == "" {
		e.Geocode = defaults.Geocode
	}
	if e.DistanceMatrix == "" {
		e.DistanceMatrix = defaults.DistanceMatrix
	}
	if e.Geolocation == "" {
		e.Geolocation = defaults.Geolocation
	}
	if e.AirQuality == "" {
		e.AirQuality = defaults.AirQuality
	}
	if e.Weather == "" {
		e.Weather = defaults.Weather
	}
	if e.DailyForecast == "" {
		e.DailyForecast = defaults.DailyForecast
	}
	if e.HourlyForecast == "" {
		e.HourlyForecast = defaults.HourlyForecast
	}
	if e.PlacesText == "" {
		e.PlacesText = defaults.PlacesText
	}
	if e.PlacesNearby == "" {
		e.PlacesNearby = defaults.PlacesNearby
	}
	if e.AreaInsights == "" {
		e.AreaInsights = defaults.AreaInsights
	}
	if e.SerpAPI == "" {
		e.SerpAPI = defaults.SerpAPI
	}
	p.endpoints = e
}

func (p *Provider) getJSON(ctx context.Context, url string, query map[string]string) (any, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return nil, err
	}
	return decodeBody(resp)
}

func (p *Provider) postJSON(ctx context.Context, url string, headers map[string]string, query map[string]string, body any) (any, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(headers).
		SetQueryParams(query).
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, err
	}
	return decodeBody(resp)
}

func decodeBody(resp *resty.Response) (any, error) {
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode())
	}
	var parsed any
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("decode upstream body: %w", err)
	}
	return parsed, nil
}

// Argument readers. Model-produced arguments are loosely typed: numbers come
// in as float64, but string-encoded values show up too and are accepted.

func argString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func argFloat(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func argInt(args map[string]any, key string) (int, bool) {
	f, ok := argFloat(args, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// RegisterAll puts the full catalog on a transport server.
func (p *Provider) RegisterAll(s *mcp.Server) {
	for _, entry := range p.Catalog() {
		s.Register(entry.Tool, entry.Handler)
	}
}

// CatalogEntry pairs an advertised tool with its handler.
type CatalogEntry struct {
	Tool    mcp.Tool
	Handler mcp.Handler
}

func (p *Provider) Catalog() []CatalogEntry {
	return []CatalogEntry{
		p.addNumbersTool(),
		p.webSearchTool(),
		p.geocodeAddressTool(),
		p.airQualityTool(),
		p.distanceMatrixTool(),
		p.geolocationTool(),
		p.weatherTool(),
		p.dailyForecastTool(),
		p.hourlyForecastTool(),
		p.searchPlacesTool(),
		p.searchNearbyPlacesTool(),
		p.areaInsightsTool(),
	}
}
