package model

// Template is a ready-made form layout users can start from. The catalog is
// compiled in; instantiating one creates a regular Form owned by the caller.
type Template struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Questions   []Question `json:"questions"`
}
