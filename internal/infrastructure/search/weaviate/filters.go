package weaviate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopassist/rag/internal/core/domain"
)

// renderWhereFilter turns a filter spec into a Weaviate where argument.
// Field clauses use ContainsAny over the allowed values, the price range
// becomes a pair of strict numeric bounds, and everything is joined with And.
// Returns "" when there is nothing to filter on.
func renderWhereFilter(filters *domain.FilterSpec) string {
	if filters.Empty() {
		return ""
	}

	fields := make([]string, 0, len(filters.Fields))
	for field := range filters.Fields {
		if len(filters.Fields[field]) > 0 {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	operands := make([]string, 0, len(fields)+2)
	for _, field := range fields {
		operands = append(operands, renderContainsAny(field, filters.Fields[field]))
	}
	if price := filters.Price; price != nil {
		operands = append(operands,
			fmt.Sprintf(`{path: ["%s"], operator: GreaterThan, valueNumber: %s}`,
				domain.FieldPrice, formatNumber(price.Min)),
			fmt.Sprintf(`{path: ["%s"], operator: LessThan, valueNumber: %s}`,
				domain.FieldPrice, formatNumber(price.Max)))
	}

	if len(operands) == 0 {
		return ""
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return fmt.Sprintf("{operator: And, operands: [%s]}", strings.Join(operands, ", "))
}

func renderContainsAny(field string, values []string) string {
	quoted := make([]string, len(values))
	for i, value := range values {
		quoted[i] = strconv.Quote(value)
	}
	return fmt.Sprintf(`{path: ["%s"], operator: ContainsAny, valueText: [%s]}`,
		field, strings.Join(quoted, ", "))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
