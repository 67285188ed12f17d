package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/k3053/GeoInsight.AI/models"
)

const defaultOverpassURL = "https://overpass-api.de/api/interpreter"

// BuildingsService counts building footprints around a point by querying
// the OpenStreetMap Overpass service.
type BuildingsService struct {
	client *resty.Client
	url    string
}

func NewBuildingsService() *BuildingsService {
	return &BuildingsService{
		client: resty.New().SetTimeout(30 * time.Second),
		url:    defaultOverpassURL,
	}
}

// SetURL points the service at a different Overpass endpoint.
func (s *BuildingsService) SetURL(url string) {
	s.url = url
}

type overpassElement struct {
	Type   string  `json:"type"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// Lookup returns the building count and centroid points within radius
// meters of (lat, lon).
func (s *BuildingsService) Lookup(ctx context.Context, lat, lon, radius float64) (models.BuildingsResponse, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:25];(way["building"](around:%.0f,%f,%f);relation["building"](around:%.0f,%f,%f););out center;`,
		radius, lat, lon, radius, lat, lon,
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"data": query}).
		Post(s.url)
	if err != nil {
		return models.BuildingsResponse{}, fmt.Errorf("query overpass: %w", err)
	}
	if !resp.IsSuccess() {
		return models.BuildingsResponse{}, fmt.Errorf("overpass returned status %d", resp.StatusCode())
	}

	var parsed overpassResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return models.BuildingsResponse{}, fmt.Errorf("decode overpass body: %w", err)
	}

	out := models.BuildingsResponse{Points: make([]models.BuildingPoint, 0, len(parsed.Elements))}
	for _, el := range parsed.Elements {
		point := models.BuildingPoint{Lat: el.Lat, Lng: el.Lon}
		if el.Center != nil {
			point = models.BuildingPoint{Lat: el.Center.Lat, Lng: el.Center.Lon}
		}
		if point.Lat == 0 && point.Lng == 0 {
			continue
		}
		out.TotalBuildings++
		out.Points = append(out.Points, point)
	}
	return out, nil
}
