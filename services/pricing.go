package services

import "github.com/shopspring/decimal"

// Pricing constants. The platform keeps 10% of the order total; invoices
// add 15% VAT on top of the full total.
var (
	commissionRate = decimal.RequireFromString("0.10")
	vatMultiplier  = decimal.RequireFromString("1.15")
)

// Quote is the money breakdown for a set of selected services.
// PlatformCommission + TailorPayout always equals Total exactly.
type Quote struct {
	Total              decimal.Decimal `json:"total"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`
	TailorPayout       decimal.Decimal `json:"tailor_payout"`
	InvoiceTotal       decimal.Decimal `json:"invoice_total"`
}

// PriceQuote computes the commission split and VAT-inclusive invoice total
// for the given service base prices. All arithmetic is decimal; the payout
// is derived by subtraction so the split never loses a cent to rounding.
// An empty price list yields a zero quote; callers reject empty selections.
func PriceQuote(basePrices []decimal.Decimal) Quote {
	total := decimal.Zero
	for _, p := range basePrices {
		total = total.Add(p)
	}

	commission := total.Mul(commissionRate).Round(2)
	payout := total.Sub(commission)
	invoiceTotal := total.Mul(vatMultiplier).Round(2)

	return Quote{
		Total:              total,
		PlatformCommission: commission,
		TailorPayout:       payout,
		InvoiceTotal:       invoiceTotal,
	}
}
