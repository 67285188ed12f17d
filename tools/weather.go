package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/k3053/GeoInsight.AI/mcp"
)

func latLngArgs(args map[string]any) (float64, float64, error) {
	lat, okLat := argFloat(args, "latitude")
	lng, okLng := argFloat(args, "longitude")
	if !okLat || !okLng {
		return 0, 0, fmt.Errorf("latitude and longitude are required")
	}
	return lat, lng, nil
}

func latLngSchema(extra map[string]*mcp.Schema) mcp.Schema {
	props := map[string]*mcp.Schema{
		"latitude":  {Type: "number", Description: "Latitude in decimal degrees"},
		"longitude": {Type: "number", Description: "Longitude in decimal degrees"},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"latitude", "longitude"},
	}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (p *Provider) airQualityTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "get_air_quality",
			Description: "Get air quality data for coordinates (latitude and longitude)",
			InputSchema: latLngSchema(nil),
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			lat, lng, err := latLngArgs(args)
			if err != nil {
				return nil, err
			}
			body := map[string]any{
				"location": map[string]any{"latitude": lat, "longitude": lng},
			}
			return p.postJSON(ctx, p.endpoints.AirQuality, nil, map[string]string{"key": p.mapsKey}, body)
		},
	}
}

// weatherTool reads current conditions from the Weather API. The response
// includes temperature, wind, precipitation, UV index and more; units are
// metric, which matches the upstream default.
func (p *Provider) weatherTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "get_weather",
			Description: "Get current weather conditions (temperature, wind, humidity, precipitation, UV) for a location",
			InputSchema: latLngSchema(nil),
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			lat, lng, err := latLngArgs(args)
			if err != nil {
				return nil, err
			}
			return p.getJSON(ctx, p.endpoints.Weather, map[string]string{
				"key":                p.mapsKey,
				"location.latitude":  formatCoord(lat),
				"location.longitude": formatCoord(lng),
			})
		},
	}
}

func (p *Provider) dailyForecastTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "get_daily_forecast",
			Description: "Get daily weather forecast (up to 10 days) for a location",
			InputSchema: latLngSchema(map[string]*mcp.Schema{
				"days":       {Type: "integer", Description: "Number of days to return (1-10)"},
				"page_size":  {Type: "integer", Description: "Days per page"},
				"page_token": {Type: "string", Description: "Token from a previous response"},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			lat, lng, err := latLngArgs(args)
			if err != nil {
				return nil, err
			}
			query := map[string]string{
				"key":                p.mapsKey,
				"location.latitude":  formatCoord(lat),
				"location.longitude": formatCoord(lng),
			}
			if days, ok := argInt(args, "days"); ok {
				query["days"] = strconv.Itoa(days)
			}
			if size, ok := argInt(args, "page_size"); ok {
				query["pageSize"] = strconv.Itoa(size)
			}
			if token := argString(args, "page_token"); token != "" {
				query["pageToken"] = token
			}
			return p.getJSON(ctx, p.endpoints.DailyForecast, query)
		},
	}
}

func (p *Provider) hourlyForecastTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "get_hourly_forecast",
			Description: "Get hourly weather forecast (up to 240 hours) for a location",
			InputSchema: latLngSchema(map[string]*mcp.Schema{
				"hours":      {Type: "integer", Description: "Number of hours to return (1-240)"},
				"page_size":  {Type: "integer", Description: "Hours per page"},
				"page_token": {Type: "string", Description: "Token from a previous response"},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			lat, lng, err := latLngArgs(args)
			if err != nil {
				return nil, err
			}
			query := map[string]string{
				"key":                p.mapsKey,
				"location.latitude":  formatCoord(lat),
				"location.longitude": formatCoord(lng),
			}
			if hours, ok := argInt(args, "hours"); ok {
				query["hours"] = strconv.Itoa(hours)
			}
			if size, ok := argInt(args, "page_size"); ok {
				query["pageSize"] = strconv.Itoa(size)
			}
			if token := argString(args, "page_token"); token != "" {
				query["pageToken"] = token
			}
			return p.getJSON(ctx, p.endpoints.HourlyForecast, query)
		},
	}
}
