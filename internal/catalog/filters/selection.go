package filters

import "github.com/google/uuid"

// Selection is the filter state of one catalog browsing session. Choosing a
// different industry drops every active filter.
type Selection struct {
	industryID  uuid.UUID
	hasIndustry bool
	active      Active
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{active: make(Active)}
}

// SetIndustry selects an industry, clearing filters when it changes.
func (s *Selection) SetIndustry(id uuid.UUID) {
	if s.hasIndustry && s.industryID == id {
		return
	}
	s.industryID = id
	s.hasIndustry = true
	s.active = make(Active)
}

// Industry returns the selected industry, if any.
func (s *Selection) Industry() (uuid.UUID, bool) {
	return s.industryID, s.hasIndustry
}

// Set activates a filter value.
func (s *Selection) Set(key string, value any) {
	s.active[key] = value
}

// SetAll activates every filter in active.
func (s *Selection) SetAll(active Active) {
	for k, v := range active {
		s.active[k] = v
	}
}

// Clear deactivates a filter.
func (s *Selection) Clear(key string) {
	delete(s.active, key)
}

// Active returns a copy of the active filters.
func (s *Selection) Active() Active {
	out := make(Active, len(s.active))
	for k, v := range s.active {
		out[k] = v
	}
	return out
}
