package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/k3053/GeoInsight.AI/models"
)

type buildingsLookup interface {
	Lookup(ctx context.Context, lat, lon, radius float64) (models.BuildingsResponse, error)
}

type DataController struct {
	buildings buildingsLookup
}

func NewDataController(buildings buildingsLookup) *DataController {
	return &DataController{buildings: buildings}
}

// HandleBuildings serves GET /data/buildings. Both the short and long query
// parameter spellings are accepted.
func (ct *DataController) HandleBuildings(c *gin.Context) {
	lat, okLat := coordParam(c, "lat", "latitude")
	lon, okLon := coordParam(c, "lon", "longitude")
	if !okLat || !okLon {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	radius := 1000.0
	if raw := c.Query("radius"); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil {
			radius = r
		}
	}

	resp, err := ct.buildings.Lookup(c.Request.Context(), lat, lon, radius)
	if err != nil {
		log.Printf("/data/buildings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch building data"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func coordParam(c *gin.Context, names ...string) (float64, bool) {
	for _, name := range names {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
