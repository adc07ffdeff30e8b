package enums

import (
	"fmt"
	"strings"
)

// ProductSortField enumerates the catalog columns a listing may be ordered by.
type ProductSortField string

const (
	ProductSortCreatedAt ProductSortField = "createdAt"
	ProductSortPrice     ProductSortField = "price"
	ProductSortName      ProductSortField = "name"
)

var productSortColumns = map[ProductSortField]string{
	ProductSortCreatedAt: "created_at",
	ProductSortPrice:     "price",
	ProductSortName:      "name",
}

// Column returns the database column backing the sort field.
func (f ProductSortField) Column() string {
	return productSortColumns[f]
}

// IsValid reports whether the value is a known ProductSortField.
func (f ProductSortField) IsValid() bool {
	_, ok := productSortColumns[f]
	return ok
}

// ProductSort is a parsed sort expression such as "-createdAt".
type ProductSort struct {
	Field      ProductSortField
	Descending bool
}

// DefaultProductSort orders newest products first.
var DefaultProductSort = ProductSort{Field: ProductSortCreatedAt, Descending: true}

// ParseProductSort parses "field" or "-field" into a ProductSort.
func ParseProductSort(value string) (ProductSort, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultProductSort, nil
	}
	sort := ProductSort{}
	if strings.HasPrefix(trimmed, "-") {
		sort.Descending = true
		trimmed = strings.TrimPrefix(trimmed, "-")
	}
	sort.Field = ProductSortField(trimmed)
	if !sort.Field.IsValid() {
		return ProductSort{}, fmt.Errorf("invalid sort field %q", value)
	}
	return sort, nil
}

// OrderClause renders the sort as a SQL ORDER BY fragment.
func (s ProductSort) OrderClause() string {
	direction := "ASC"
	if s.Descending {
		direction = "DESC"
	}
	return s.Field.Column() + " " + direction
}
