// Package models defines the typed records flowing between the spreadsheet
// readers, the allocator and the writers.
package models

import (
	"github.com/shopspring/decimal"
)

// CharityRecord is one row of a charity ledger: a product, the counterparty
// the donation went through, and the donated amount. Rows with an empty
// product name or an unparseable amount never become records; the readers
// drop them with a warning.
type CharityRecord struct {
	ProductName  string          `json:"product_name" yaml:"product_name"`
	Counterparty string          `json:"counterparty" yaml:"counterparty"`
	Amount       decimal.Decimal `json:"amount" yaml:"amount"`
}

// HoldingRecord is one row of a unit-holding roster. Share stays a
// NullDecimal: an absent share and a zero share allocate identically today,
// but the distinction is kept for audit purposes.
type HoldingRecord struct {
	ProductName  string              `json:"product_name" yaml:"product_name"`
	CustomerName string              `json:"customer_name" yaml:"customer_name"`
	Share        decimal.NullDecimal `json:"share" yaml:"share"`
}

// ShareOrZero returns the share weight, treating an absent share as zero.
func (r HoldingRecord) ShareOrZero() decimal.Decimal {
	if r.Share.Valid {
		return r.Share.Decimal
	}
	return decimal.Zero
}

// RunStats aggregates the counters reported after a generation run.
type RunStats struct {
	CharityFiles        int `json:"charity_files"`
	HoldingFiles        int `json:"holding_files"`
	CharityRows         int `json:"charity_rows"`
	HoldingRecords      int `json:"holding_records"`
	DocsSuccess         int `json:"docs_success"`
	DocsFailed          int `json:"docs_failed"`
	DetailFiles         int `json:"detail_files"`
	DetailAttachSuccess int `json:"detail_attach_success"`
	DetailAttachFailed  int `json:"detail_attach_failed"`
}
