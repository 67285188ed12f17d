package models

// HistoryTurn is one prior turn supplied by the client alongside a message.
type HistoryTurn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatRequest is the body of POST /chat/query. Only Message is required;
// the optional fields depend on which frontend variant is calling.
type ChatRequest struct {
	Message     string        `json:"message" binding:"required"`
	SessionID   string        `json:"session_id"`
	Latitude    *float64      `json:"latitude"`
	Longitude   *float64      `json:"longitude"`
	ChatHistory []HistoryTurn `json:"chat_history"`
	ChatID      string        `json:"chat_id"`
	MCPURL      string        `json:"mcp_url"`
}

// Location is a resolved coordinate pair pulled from a geocode tool call.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName,omitempty"`
}

// ChatResponse always carries a non-empty answer; Location is present only
// when the agent geocoded something during the run.
type ChatResponse struct {
	Answer   string    `json:"answer"`
	Location *Location `json:"location,omitempty"`
}

// BuildingPoint is one building centroid returned by the buildings lookup.
type BuildingPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BuildingsResponse is the body of GET /data/buildings.
type BuildingsResponse struct {
	TotalBuildings int             `json:"totalBuildings"`
	Points         []BuildingPoint `json:"points"`
}
