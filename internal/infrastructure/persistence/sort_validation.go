package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderSortFields contains allowed sort fields for purchase orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"reference_code": true,
	"supplier_id":    true,
	"supplier_name":  true,
	"status":         true,
	"sent_at":        true,
	"expected_at":    true,
	"received_at":    true,
}

// ReceiptSortFields contains allowed sort fields for goods receipts
var ReceiptSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"location_id": true,
	"supplier_id": true,
	"order_id":    true,
	"status":      true,
	"received_at": true,
}

// DiscrepancySortFields contains allowed sort fields for discrepancy records
var DiscrepancySortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"receipt_id":  true,
	"order_id":    true,
	"item_id":     true,
	"item_name":   true,
	"type":        true,
	"status":      true,
	"resolved_at": true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"item_id":       true,
	"location_id":   true,
	"on_hand":       true,
	"reorder_point": true,
}
