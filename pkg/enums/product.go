package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the canonical product categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "Electronics"
	ProductCategoryClothing    ProductCategory = "Clothing"
	ProductCategoryBooks       ProductCategory = "Books"
	ProductCategoryHome        ProductCategory = "Home"
	ProductCategorySports      ProductCategory = "Sports"
	ProductCategoryOther       ProductCategory = "Other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryClothing,
	ProductCategoryBooks,
	ProductCategoryHome,
	ProductCategorySports,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory. Matching is
// case-insensitive so query strings like "electronics" resolve.
func ParseProductCategory(value string) (ProductCategory, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validProductCategories {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategoryList renders the known categories for error details.
func ProductCategoryList() string {
	names := make([]string, 0, len(validProductCategories))
	for _, c := range validProductCategories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
