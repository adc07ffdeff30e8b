package enums

// CartOperation names the engine operations for logging and metrics labels.
type CartOperation string

const (
	CartOperationGet         CartOperation = "get"
	CartOperationAddItem     CartOperation = "add_item"
	CartOperationSetQuantity CartOperation = "set_quantity"
	CartOperationRemoveItem  CartOperation = "remove_item"
	CartOperationClear       CartOperation = "clear"
)

var validCartOperations = []CartOperation{
	CartOperationGet,
	CartOperationAddItem,
	CartOperationSetQuantity,
	CartOperationRemoveItem,
	CartOperationClear,
}

// String implements fmt.Stringer.
func (o CartOperation) String() string {
	return string(o)
}

// IsValid reports whether the value is a known CartOperation.
func (o CartOperation) IsValid() bool {
	for _, candidate := range validCartOperations {
		if candidate == o {
			return true
		}
	}
	return false
}
