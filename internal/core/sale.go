package core

import "time"

// PaymentMethod is how the customer paid. Legacy rows without a method are
// normalized to cash at the store-read boundary.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// LumpItemID is the reserved catalog id for lump daily takings rows.
const LumpItemID = 0

// Display-time sentinels for entries that were not recorded in real time.
const (
	TimeBackdated   = "backdated"
	TimeManualTotal = "manual-total"
)

// Sale is one immutable ledger record. It is created by the record/lump
// operations, never edited, and removed only by an authorized delete.
type Sale struct {
	ID            string        `json:"id"`
	ItemID        int           `json:"itemId"`
	ItemName      string        `json:"itemName"`
	ItemIcon      string        `json:"itemIcon"`
	UnitPrice     Money         `json:"unitPrice"`
	Quantity      int           `json:"quantity"`
	Total         Money         `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Date          string        `json:"date"` // YYYY-MM-DD
	Time          string        `json:"time"` // HH:MM or a sentinel
	RecordedBy    string        `json:"recordedBy"`
	CreatedAt     time.Time     `json:"createdAt"`
	IsLumpTotal   bool          `json:"isLumpTotal"`
}

// CountsAsCard reports whether the sale belongs in the card partition of the
// payment split. Everything else, including unknown or missing methods on
// legacy rows, counts as cash.
func (s Sale) CountsAsCard() bool {
	return s.PaymentMethod == PaymentCard
}

// Normalize fills the legacy defaults that older rows may lack: payment
// method cash, quantity 1 and total equal to the unit price. It is applied
// once when a row leaves the store, never inside aggregation.
func (s Sale) Normalize() Sale {
	if s.PaymentMethod == "" {
		s.PaymentMethod = PaymentCash
	}
	if s.Quantity <= 0 {
		s.Quantity = 1
	}
	if s.Total.Cents == 0 {
		s.Total = s.UnitPrice
	}
	return s
}
