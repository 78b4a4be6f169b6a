package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the sale events queue.
const (
	KindSaleRecorded = "sale.recorded"
	KindSaleDeleted  = "sale.deleted"
)

// SaleEventMessage is the envelope for ledger events. Recorded events carry
// only the sale ID and the worker fetches the full row from the database;
// deleted events carry a snapshot because the row is already gone.
type SaleEventMessage struct {
	Kind       string    `json:"kind"`
	SaleID     string    `json:"saleId"`
	Date       string    `json:"date,omitempty"`
	ItemName   string    `json:"itemName,omitempty"`
	RecordedBy string    `json:"recordedBy,omitempty"`
	TotalCents int64     `json:"totalCents,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewSaleRecordedMessage builds the message for a freshly stored sale.
func NewSaleRecordedMessage(saleID string) *SaleEventMessage {
	return &SaleEventMessage{
		Kind:      KindSaleRecorded,
		SaleID:    saleID,
		Timestamp: time.Now(),
	}
}

// NewSaleDeletedMessage builds the message for a removed sale, carrying the
// snapshot needed to write a journal reversal row.
func NewSaleDeletedMessage(saleID, date, itemName, recordedBy string, totalCents int64) *SaleEventMessage {
	return &SaleEventMessage{
		Kind:       KindSaleDeleted,
		SaleID:     saleID,
		Date:       date,
		ItemName:   itemName,
		RecordedBy: recordedBy,
		TotalCents: totalCents,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SaleEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func SaleEventMessageFromJSON(data []byte) (*SaleEventMessage, error) {
	var msg SaleEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
