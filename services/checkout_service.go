package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restaurant-service/apperrors"
	"restaurant-service/models"
	awspkg "restaurant-service/pkg/aws"
	"restaurant-service/repository"
)

const EventPaymentRecorded = "payment_recorded"

// CheckoutService records a payment and clears the cart entries it settles.
// The two writes are independent: a failure after the insert leaves the
// payment stored with its cart entries still present.
type CheckoutService struct {
	payments repository.Collection[models.PaymentRecord]
	carts    repository.Collection[models.CartEntry]
	events   awspkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

// NewCheckoutService wires the checkout flow. events may be nil, in which
// case no payment events are published.
func NewCheckoutService(store *repository.Store, events awspkg.SNSPublisher, topicArn string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		payments: store.Payments,
		carts:    store.Carts,
		events:   events,
		topicArn: topicArn,
		logger:   logger,
	}
}

func (s *CheckoutService) RecordPayment(ctx context.Context, payment *models.PaymentRecord) (*models.CheckoutResult, error) {
	// Reject the whole request before writing if any id is malformed.
	ids, err := repository.ParseIDs(payment.CartItems)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedIdentifier, err)
	}

	insertResult, err := s.payments.InsertOne(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	deletedResult, err := s.carts.DeleteMany(ctx, repository.ByIDs(ids))
	if err != nil {
		s.logger.Error("Payment recorded but cart entries were not cleared",
			zap.Any("payment_id", insertResult.InsertedID),
			zap.Strings("cart_items", payment.CartItems),
			zap.Error(err),
		)
		return nil, fmt.Errorf("delete settled cart entries: %w", err)
	}

	s.publishPaymentEvent(ctx, payment, insertResult, deletedResult)

	return &models.CheckoutResult{InsertResult: insertResult, DeletedResult: deletedResult}, nil
}

// publishPaymentEvent is best effort; failures are only logged.
func (s *CheckoutService) publishPaymentEvent(ctx context.Context, payment *models.PaymentRecord, ins *models.InsertResult, del *models.DeleteResult) {
	if s.events == nil || s.topicArn == "" {
		return
	}

	event := models.PaymentEvent{
		Type:          EventPaymentRecorded,
		PaymentID:     idString(ins.InsertedID),
		Email:         payment.Email,
		TransactionID: payment.TransactionID,
		Amount:        payment.Price,
		CartItems:     payment.CartItems,
		DeletedCount:  del.DeletedCount,
		Timestamp:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal payment event", zap.Error(err))
		return
	}

	if err := s.events.Publish(ctx, s.topicArn, payload); err != nil {
		s.logger.Error("Failed to publish payment event to SNS",
			zap.String("event_type", event.Type),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Payment event published to SNS",
		zap.String("event_type", event.Type),
		zap.String("payment_id", event.PaymentID),
	)
}

func idString(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
