package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

// ListFilters describe the supported knobs for the browse endpoint. Nil or
// empty fields do not constrain the result.
type ListFilters struct {
	Category *enums.ProductCategory
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	Sort     enums.ProductSort
}

// ListResult is the browse payload: every matching product plus the count.
type ListResult struct {
	Count int          `json:"count"`
	Items []ProductDTO `json:"items"`
}
