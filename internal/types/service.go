package types

// Category represents service categories
type Category string

const (
	CategoryScraper Category = "scraper"
)

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Result represents a tool execution result
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *string        `json:"error,omitempty"`
}

// ErrorMessage returns the failure message, or "" for a successful result.
func (r *Result) ErrorMessage() string {
	if r == nil || r.Error == nil {
		return ""
	}
	return *r.Error
}

// Find returns the tool with the given ID.
func (s Service) Find(toolID string) (Tool, bool) {
	for _, t := range s.Tools {
		if t.ID == toolID {
			return t, true
		}
	}
	return Tool{}, false
}
