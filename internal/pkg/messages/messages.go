package messages

import (
	"strconv"

	amessages "github.com/airenas/async-api/pkg/messages"
)

const (
	st = "PO/"
	// Inform queue name, new purchase order notifications
	Inform = st + "Inform"
)

// OrderMessage points to a stored purchase order
type OrderMessage struct {
	amessages.QueueMessage
	OrderID   int64  `json:"orderID"`
	RequestID string `json:"requestID,omitempty"`
}

// NewOrderMessage creates a message for the order
func NewOrderMessage(orderID int64, requestID string) *OrderMessage {
	return &OrderMessage{QueueMessage: amessages.QueueMessage{ID: strconv.FormatInt(orderID, 10)},
		OrderID: orderID, RequestID: requestID}
}
