package enum

// ── Order status (CHECK constrained in DB) ──

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)

// OrderStatuses lists all statuses in workflow order. The status-counts
// endpoint iterates this so every status appears even at zero.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusCompleted,
}

// ── Menu categories (validated at the store boundary, no DB constraint) ──

const (
	ItemTypeDrink = "drink"
	ItemTypeMilk  = "milk"
	ItemTypeSyrup = "syrup"
	ItemTypeFoam  = "foam"
	ItemTypeAddon = "addon"
)

// ItemTypes lists all configurable menu categories. The drink category is the
// base selection; milk/syrup/foam are per-order options and addon holds the
// boolean add-ons (extra shot and the like).
var ItemTypes = []string{
	ItemTypeDrink,
	ItemTypeMilk,
	ItemTypeSyrup,
	ItemTypeFoam,
	ItemTypeAddon,
}

func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted:
		return true
	}
	return false
}

func IsValidItemType(s string) bool {
	switch s {
	case ItemTypeDrink, ItemTypeMilk, ItemTypeSyrup, ItemTypeFoam, ItemTypeAddon:
		return true
	}
	return false
}

// IsOptionCategory reports whether the category can appear in an order's
// selections map (everything except the base drink and the add-on flags).
func IsOptionCategory(s string) bool {
	switch s {
	case ItemTypeMilk, ItemTypeSyrup, ItemTypeFoam:
		return true
	}
	return false
}
