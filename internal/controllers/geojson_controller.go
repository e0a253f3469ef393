package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"givemap/internal/models"
)

// GeoJSON serves the filtered locations as a FeatureCollection of points.
// An optional bbox=minLon,minLat,maxLon,maxLat restricts the area.
func (lc *LocationController) GeoJSON(c *gin.Context) {
	filter, err := locationFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var bbox *geom.Bounds
	if raw := c.Query("bbox"); raw != "" {
		if bbox, err = parseBBox(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	locs, _, err := lc.locations.ListLocations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	body, err := featureCollection(locs, bbox).MarshalJSON()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

func featureCollection(locs []models.Location, bbox *geom.Bounds) *gjson.FeatureCollection {
	fc := &gjson.FeatureCollection{Features: []*gjson.Feature{}}
	extent := geom.NewBounds(geom.XY)
	for _, loc := range locs {
		coord := geom.Coord{loc.Longitude, loc.Latitude}
		if bbox != nil && !bbox.OverlapsPoint(geom.XY, coord) {
			continue
		}
		point := geom.NewPointFlat(geom.XY, coord)
		extent.Extend(point)
		fc.Features = append(fc.Features, &gjson.Feature{
			ID:       strconv.FormatUint(uint64(loc.ID), 10),
			Geometry: point,
			Properties: map[string]interface{}{
				"name":        loc.Name,
				"description": loc.Description,
				"category":    loc.Category,
				"imageUrls":   loc.ImageURLs,
				"createdAt":   loc.CreatedAt,
			},
		})
	}
	if len(fc.Features) > 0 {
		fc.BBox = extent
	}
	return fc
}

func parseBBox(raw string) (*geom.Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be minLon,minLat,maxLon,maxLat")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox value %q is not a number", p)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return nil, fmt.Errorf("bbox minimum exceeds maximum")
	}
	return geom.NewBounds(geom.XY).Set(v[0], v[1], v[2], v[3]), nil
}
