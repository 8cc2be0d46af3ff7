package models

import "time"

// Store operation summaries. Field names follow the MongoDB result documents
// that existing clients already read.

type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// CheckoutResult is returned by POST /payment.
type CheckoutResult struct {
	InsertResult  *InsertResult `json:"insertResult"`
	DeletedResult *DeleteResult `json:"deletedResult"`
}

// PaymentEvent is published after a checkout has been recorded.
type PaymentEvent struct {
	Type          string    `json:"type"` // "payment_recorded"
	PaymentID     string    `json:"payment_id"`
	Email         string    `json:"email"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Amount        float64   `json:"amount"`
	CartItems     []string  `json:"cart_items"`
	DeletedCount  int64     `json:"deleted_count"`
	Timestamp     time.Time `json:"timestamp"` // UTC event time
}
