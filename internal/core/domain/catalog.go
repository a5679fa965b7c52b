package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Product is one catalog record from the retail dataset.
type Product struct {
	ID             string  `json:"product_id"`
	DisplayName    string  `json:"productDisplayName"`
	Gender         string  `json:"gender"`
	MasterCategory string  `json:"masterCategory"`
	SubCategory    string  `json:"subCategory"`
	ArticleType    string  `json:"articleType"`
	BaseColour     string  `json:"baseColour"`
	Season         string  `json:"season"`
	Year           int     `json:"year"`
	Usage          string  `json:"usage"`
	Price          float64 `json:"price"`
}

// FAQEntry is one knowledge-base record.
type FAQEntry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"type"`
}

// Dataset is everything a catalog source loads at startup.
type Dataset struct {
	Products []Product
	FAQ      []FAQEntry
}

// Catalog field names, matching the backend's property keys.
const (
	FieldGender         = "gender"
	FieldMasterCategory = "masterCategory"
	FieldArticleType    = "articleType"
	FieldBaseColour     = "baseColour"
	FieldPrice          = "price"
	FieldUsage          = "usage"
	FieldSeason         = "season"
)

// FilterableFields are the whitelisted value-set fields, in the order the
// extraction contract lists them. Price is handled separately as a range.
var FilterableFields = []string{
	FieldGender,
	FieldMasterCategory,
	FieldArticleType,
	FieldBaseColour,
	FieldUsage,
	FieldSeason,
}

// FilterCatalog is the process-wide snapshot of allowed values per
// filterable field. Built once at startup and never mutated afterwards.
type FilterCatalog struct {
	values map[string][]string
}

// NewFilterCatalog enumerates the observed values of every filterable field.
// Values are sorted so extraction prompts are stable across restarts.
func NewFilterCatalog(products []Product) *FilterCatalog {
	sets := make(map[string]map[string]struct{}, len(FilterableFields))
	for _, field := range FilterableFields {
		sets[field] = make(map[string]struct{})
	}
	for _, p := range products {
		addValue(sets, FieldGender, p.Gender)
		addValue(sets, FieldMasterCategory, p.MasterCategory)
		addValue(sets, FieldArticleType, p.ArticleType)
		addValue(sets, FieldBaseColour, p.BaseColour)
		addValue(sets, FieldUsage, p.Usage)
		addValue(sets, FieldSeason, p.Season)
	}

	values := make(map[string][]string, len(sets))
	for field, set := range sets {
		list := make([]string, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Strings(list)
		values[field] = list
	}
	return &FilterCatalog{values: values}
}

// Values returns a copy of the allowed values for one field.
func (c *FilterCatalog) Values(field string) []string {
	src, ok := c.values[field]
	if !ok {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func (c *FilterCatalog) Fields() []string {
	out := make([]string, len(FilterableFields))
	copy(out, FilterableFields)
	return out
}

func addValue(sets map[string]map[string]struct{}, field, value string) {
	if value == "" {
		return
	}
	sets[field][value] = struct{}{}
}

func stringify(v any) string {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
