package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withCommon(fields ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort columns per resource
var (
	ClientSortFields        = withCommon("name", "email", "code", "type", "client_type", "is_active")
	ProductSortFields       = withCommon("code", "name", "price", "currency", "unit")
	SaleSortFields          = withCommon("doc_number", "doc_date", "sale_date", "total_amount", "status", "invoice_number")
	PurchaseSortFields      = withCommon("doc_number", "doc_date", "purchase_date", "total_amount", "status", "invoice_number")
	WarehouseSortFields     = withCommon("name", "code", "status")
	BankOperationSortFields = withCommon("date", "amount", "type", "description")
	AccountSortFields       = withCommon("code", "name", "type", "account_type", "parent_code", "is_active")
	SettlementSortFields    = withCommon("doc_number", "doc_date", "status", "amount", "period_start", "period_end")
)
