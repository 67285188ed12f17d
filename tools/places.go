package tools

import (
	"context"
	"fmt"

	"github.com/k3053/GeoInsight.AI/mcp"
)

func (p *Provider) placesHeaders(fieldMask string) map[string]string {
	return map[string]string{
		"X-Goog-Api-Key":   p.mapsKey,
		"X-Goog-FieldMask": fieldMask,
	}
}

func (p *Provider) searchPlacesTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name: "search_places",
			Description: "Search for places using text queries (e.g. 'Spicy Vegetarian Food in Sydney, Australia'). " +
				"Returns display name, address, and price level if available.",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"query": {Type: "string", Description: "Free-text place query"},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query := argString(args, "query")
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}
			headers := p.placesHeaders("places.displayName,places.formattedAddress,places.priceLevel")
			return p.postJSON(ctx, p.endpoints.PlacesText, headers, nil, map[string]any{"textQuery": query})
		},
	}
}

// Nearby search defaults: 1000 m radius, restaurant type, 10 results. The
// place_type must be one of the includedTypes the Places API supports; the
// free-text mapping to a supported type is prompt-guided, not done here.
func (p *Provider) searchNearbyPlacesTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "search_nearby_places",
			Description: "Search for nearby places of a given type around coordinates using Google Places API",
			InputSchema: latLngSchema(map[string]*mcp.Schema{
				"radius":      {Type: "number", Description: "Search radius in meters (default 1000)"},
				"place_type":  {Type: "string", Description: "Place type, e.g. restaurant, hospital, school (default restaurant)"},
				"max_results": {Type: "integer", Description: "Maximum results (default 10)"},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			lat, lng, err := latLngArgs(args)
			if err != nil {
				return nil, err
			}
			radius := 1000.0
			if r, ok := argFloat(args, "radius"); ok {
				radius = r
			}
			placeType := "restaurant"
			if t := argString(args, "place_type"); t != "" {
				placeType = t
			}
			maxResults := 10
			if n, ok := argInt(args, "max_results"); ok {
				maxResults = n
			}
			body := map[string]any{
				"includedTypes":  []string{placeType},
				"maxResultCount": maxResults,
				"locationRestriction": map[string]any{
					"circle": map[string]any{
						"center": map[string]any{"latitude": lat, "longitude": lng},
						"radius": radius,
					},
				},
			}
			headers := p.placesHeaders("places.displayName,places.location,places.types")
			return p.postJSON(ctx, p.endpoints.PlacesNearby, headers, nil, body)
		},
	}
}

func (p *Provider) areaInsightsTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name: "compute_area_insights",
			Description: "Compute place insights over a geographic area with the Places Aggregate API. " +
				"insights is e.g. [\"INSIGHT_COUNT\"] or [\"INSIGHT_PLACES\"]; location_filter takes a circle, " +
				"region, or customArea shape; type_filter takes includedTypes/excludedTypes lists.",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"insights": {
						Type:  "array",
						Items: &mcp.Schema{Type: "string"},
					},
					"location_filter":  {Type: "object", Description: "circle/region/customArea location filter"},
					"type_filter":      {Type: "object", Description: "includedTypes/excludedTypes filter"},
					"operating_status": {Type: "array", Items: &mcp.Schema{Type: "string"}},
					"price_levels":     {Type: "array", Items: &mcp.Schema{Type: "string"}},
					"rating_filter":    {Type: "object", Description: "minRating/maxRating bounds"},
				},
				Required: []string{"insights", "location_filter", "type_filter"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			insights, ok := args["insights"]
			if !ok {
				return nil, fmt.Errorf("insights is required")
			}
			locationFilter, ok := args["location_filter"]
			if !ok {
				return nil, fmt.Errorf("location_filter is required")
			}
			typeFilter, ok := args["type_filter"]
			if !ok {
				return nil, fmt.Errorf("type_filter is required")
			}
			filter := map[string]any{
				"locationFilter": locationFilter,
				"typeFilter":     typeFilter,
			}
			if status, ok := args["operating_status"]; ok {
				filter["operatingStatus"] = status
			}
			if levels, ok := args["price_levels"]; ok {
				filter["priceLevels"] = levels
			}
			if rating, ok := args["rating_filter"]; ok {
				filter["ratingFilter"] = rating
			}
			body := map[string]any{
				"insights": insights,
				"filter":   filter,
			}
			headers := map[string]string{"X-Goog-Api-Key": p.mapsKey}
			return p.postJSON(ctx, p.endpoints.AreaInsights, headers, nil, body)
		},
	}
}
