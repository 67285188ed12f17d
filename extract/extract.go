// Package extract pulls the structured response out of an agent run's raw
// conversation state: the human-readable answer text and, when the run
// geocoded something, the resolved location. Everything here is best-effort
// with explicit fallbacks; extraction never fails a request.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/k3053/GeoInsight.AI/models"
)

const geocodeToolName = "geocode_address"

// Answer returns the final assistant text. The fallback chain guarantees a
// non-empty string: last message -> string content -> joined text parts ->
// string-cast of the whole result.
func Answer(result models.AgentResult) string {
	if len(result.Messages) > 0 {
		last := result.Messages[len(result.Messages)-1]
		if !last.Content.IsParts() {
			if last.Content.Text != "" {
				return last.Content.Text
			}
		} else {
			var texts []string
			for _, part := range last.Content.Parts {
				if part.Type == "text" && part.Text != "" {
					texts = append(texts, part.Text)
				}
			}
			if combined := strings.Join(texts, "\n"); combined != "" {
				return combined
			}
		}
	}
	// Last resort: a debug-looking string beats an empty answer.
	return fmt.Sprintf("%v", result)
}

// Location scans tool results newest-first for geocode output and returns
// the first candidate's coordinates and display name. Malformed or empty
// output is skipped, never escalated.
func Location(result models.AgentResult) *models.Location {
	for i := len(result.Messages) - 1; i >= 0; i-- {
		msg := result.Messages[i]
		if msg.Role != models.RoleTool || msg.ToolName != geocodeToolName {
			continue
		}
		if loc := parseGeocodeOutput(msg.Content.Text); loc != nil {
			return loc
		}
	}
	return nil
}

// parseGeocodeOutput expects the geocode results array, possibly wrapped in
// an extra layer of string serialization:
// [{"geometry":{"location":{"lat":..,"lng":..}},"formatted_address":".."}]
func parseGeocodeOutput(text string) *models.Location {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	// Double-encoded output shows up when a transport stringifies the value.
	if inner, ok := parsed.(string); ok {
		if err := json.Unmarshal([]byte(inner), &parsed); err != nil {
			return nil
		}
	}

	candidates, ok := parsed.([]any)
	if !ok || len(candidates) == 0 {
		return nil
	}
	first, ok := candidates[0].(map[string]any)
	if !ok {
		return nil
	}
	geometry, ok := first["geometry"].(map[string]any)
	if !ok {
		return nil
	}
	location, ok := geometry["location"].(map[string]any)
	if !ok {
		return nil
	}
	lat, okLat := location["lat"].(float64)
	lng, okLng := location["lng"].(float64)
	if !okLat || !okLng {
		return nil
	}

	loc := &models.Location{Latitude: lat, Longitude: lng}
	if address, ok := first["formatted_address"].(string); ok {
		loc.DisplayName = address
	}
	return loc
}
