package amqp

import (
	"encoding/json"
	"time"
)

// ProductSyncMessage asks the worker to mirror one product to the back-office
// ledger. It carries only the ID; the worker fetches the full record from the
// database so the ledger always sees the current row.
type ProductSyncMessage struct {
	ProductID string    `json:"productId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProductSyncMessage creates a sync message for the given product.
func NewProductSyncMessage(productID string) *ProductSyncMessage {
	return &ProductSyncMessage{
		ProductID: productID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ProductSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ProductSyncMessageFromJSON creates a message from JSON bytes
func ProductSyncMessageFromJSON(data []byte) (*ProductSyncMessage, error) {
	var msg ProductSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
