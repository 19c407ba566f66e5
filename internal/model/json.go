package model

import "github.com/shopspring/decimal"

func init() {
	// The hosted backend expects numeric JSON for money columns, and our own
	// API mirrors that; quoted decimals would be rejected on insert.
	decimal.MarshalJSONWithoutQuotes = true
}
