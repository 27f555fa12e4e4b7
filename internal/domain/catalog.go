package domain

// ServiceRecord is one offered automation service as shown in the catalog.
// Records are read-only snapshots; they are never persisted by this process.
type ServiceRecord struct {
	ID              string   `json:"id,omitempty"` // datastore record handle, empty for fallback entries
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	CurrentEarnings float64  `json:"currentEarnings"`
	MaxEarnings     float64  `json:"maxEarnings"`
	Cost            string   `json:"cost"`
	CostKrw         int64    `json:"costKrw"`
	Color           string   `json:"color"`
	LightColor      string   `json:"lightColor"`
	TextColor       string   `json:"textColor"`
	Requirements    []string `json:"requirements"`
	Features        []string `json:"features"`
	IsNew           bool     `json:"isNew"`
	IsActive        bool     `json:"isActive"`
	Category        string   `json:"category"`
	Order           int      `json:"order"`
}

// Clone returns a deep copy so shared records cannot be mutated through slices.
func (s ServiceRecord) Clone() ServiceRecord {
	c := s
	c.Requirements = append([]string(nil), s.Requirements...)
	c.Features = append([]string(nil), s.Features...)
	return c
}
