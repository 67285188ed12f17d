package tools

import (
	"context"
	"fmt"

	"github.com/k3053/GeoInsight.AI/mcp"
)

// geocodeAddressTool converts free-text place descriptions into coordinates.
// It returns the bare results array so a consumer sees the same shape the
// Google client libraries produce: [{geometry:{location:{lat,lng}}, ...}].
func (p *Provider) geocodeAddressTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "geocode_address",
			Description: "Convert address, places names, malls, schools, colleges, shops, restaurants and all such places to coordinates",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"address": {Type: "string", Description: "Free-text address or place name"},
				},
				Required: []string{"address"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			address := argString(args, "address")
			if address == "" {
				return nil, fmt.Errorf("address is required")
			}
			parsed, err := p.getJSON(ctx, p.endpoints.Geocode, map[string]string{
				"address": address,
				"key":     p.mapsKey,
			})
			if err != nil {
				return nil, err
			}
			if body, ok := parsed.(map[string]any); ok {
				return body["results"], nil
			}
			return parsed, nil
		},
	}
}

func (p *Provider) distanceMatrixTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name: "get_distance_matrix",
			Description: "Get distance and duration between origins and destinations using Google Distance Matrix. " +
				"Origins and destinations are addresses or \"latitude,longitude\" strings. " +
				"For current traffic set departure_time=\"now\" and traffic_model=\"best_guess\".",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"origins":        {Type: "string", Description: "Origin address or \"lat,lng\""},
					"destinations":   {Type: "string", Description: "Destination address or \"lat,lng\""},
					"units":          {Type: "string", Enum: []string{"metric", "imperial"}},
					"mode":           {Type: "string", Enum: []string{"driving", "walking", "bicycling", "transit"}},
					"departure_time": {Type: "string", Description: "Optional, e.g. \"now\""},
					"traffic_model":  {Type: "string", Enum: []string{"best_guess", "pessimistic", "optimistic"}},
				},
				Required: []string{"origins", "destinations"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			origins := argString(args, "origins")
			destinations := argString(args, "destinations")
			if origins == "" || destinations == "" {
				return nil, fmt.Errorf("origins and destinations are required")
			}
			query := map[string]string{
				"origins":      origins,
				"destinations": destinations,
				"units":        "metric",
				"mode":         "driving",
				"key":          p.mapsKey,
			}
			if units := argString(args, "units"); units != "" {
				query["units"] = units
			}
			if mode := argString(args, "mode"); mode != "" {
				query["mode"] = mode
			}
			if dep := argString(args, "departure_time"); dep != "" {
				query["departure_time"] = dep
			}
			if tm := argString(args, "traffic_model"); tm != "" {
				query["traffic_model"] = tm
			}
			return p.getJSON(ctx, p.endpoints.DistanceMatrix, query)
		},
	}
}

// geolocationTool resolves an approximate position from a WiFi access-point
// MAC address. IP-based positioning is deliberately disabled so results come
// from the supplied access point only.
func (p *Provider) geolocationTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "get_geolocation",
			Description: "Get approximate geolocation based on WiFi access point MAC address. Signal strength is optional.",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"mac_address":     {Type: "string", Description: "Access point MAC address"},
					"signal_strength": {Type: "integer", Description: "Optional signal strength in dBm"},
				},
				Required: []string{"mac_address"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			mac := argString(args, "mac_address")
			if mac == "" {
				return nil, fmt.Errorf("mac_address is required")
			}
			wifiPoint := map[string]any{"macAddress": mac}
			if strength, ok := argInt(args, "signal_strength"); ok {
				wifiPoint["signalStrength"] = strength
			}
			body := map[string]any{
				"considerIp":       "false",
				"wifiAccessPoints": []any{wifiPoint},
			}
			return p.postJSON(ctx, p.endpoints.Geolocation, nil, map[string]string{"key": p.mapsKey}, body)
		},
	}
}
