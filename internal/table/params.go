package table

// Params is the serialisable form of a table's inputs. It is stored in the
// session between requests and parsed from API query strings.
type Params struct {
	PageIndex int                  `json:"page"`
	PageSize  int                  `json:"size,omitempty"`
	Sort      SortSpec             `json:"sort"`
	Global    string               `json:"q,omitempty"`
	Filters   map[ColumnKey]string `json:"filters,omitempty"`
}

// Params captures the current inputs.
func (s *State) Params() Params {
	filters := make(map[ColumnKey]string, len(s.filters))
	for k, v := range s.filters {
		filters[k] = v
	}
	return Params{
		PageIndex: s.pageIndex,
		PageSize:  s.pageSize,
		Sort:      s.sort,
		Global:    s.global,
		Filters:   filters,
	}
}

// Apply replaces every input at once and recomputes the view a single time.
// Invalid values fall back to defaults: unknown columns are dropped, an
// unsortable or malformed sort is cleared and the page index is clamped.
func (s *State) Apply(p Params) {
	s.filters = make(map[ColumnKey]string, len(p.Filters))
	for key, pattern := range p.Filters {
		if col, ok := s.byKey[key]; ok && col.Filterable && pattern != "" {
			s.filters[key] = pattern
		}
	}
	s.global = p.Global

	s.sort = SortSpec{}
	if col, ok := s.byKey[p.Sort.Column]; ok && col.Sortable {
		switch p.Sort.Direction {
		case SortAsc, SortDesc:
			s.sort = p.Sort
		}
	}

	s.pageSize = p.PageSize
	if s.pageSize < 1 {
		s.pageSize = s.opts.PageSize
	}
	s.pageIndex = p.PageIndex
	s.recompute()
}
