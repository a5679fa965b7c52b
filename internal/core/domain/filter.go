package domain

// PriceRange bounds the price field. Both bounds are exclusive and both are
// required; a spec with Min <= 0 or a non-finite Max is never constructed.
type PriceRange struct {
	Min float64
	Max float64
}

// FilterSpec is the structured filter extracted from a product query. Only
// whitelisted fields appear in Fields; unknown keys never survive
// extraction.
type FilterSpec struct {
	Fields map[string][]string
	Price  *PriceRange
}

func (s *FilterSpec) Empty() bool {
	return s == nil || (len(s.Fields) == 0 && s.Price == nil)
}
