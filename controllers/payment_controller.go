package controllers

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-service/apperrors"
	"restaurant-service/middleware"
	"restaurant-service/models"
	"restaurant-service/services"
)

// Checkout is satisfied by services.CheckoutService.
type Checkout interface {
	RecordPayment(ctx context.Context, payment *models.PaymentRecord) (*models.CheckoutResult, error)
}

type PaymentController struct {
	Payments services.PaymentProvider
	Checkout Checkout
	Currency string
	Logger   *zap.Logger
}

func NewPaymentController(payments services.PaymentProvider, checkout Checkout, currency string, logger *zap.Logger) *PaymentController {
	return &PaymentController{Payments: payments, Checkout: checkout, Currency: currency, Logger: logger}
}

// maxChargeAmount is the largest amount, in minor units, the card processor
// accepts (eight digits).
const maxChargeAmount = 99_999_999

type paymentIntentRequest struct {
	Price *float64 `json:"price" binding:"required"`
}

// CreatePaymentIntent charges price (major units) as price*100 minor units.
func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}
	minor := math.Round(*req.Price * 100)
	if minor < 0 || minor > maxChargeAmount {
		apperrors.Abort(c, apperrors.New(http.StatusBadRequest, "price is out of range", nil))
		return
	}
	amount := int64(minor)

	clientSecret, err := pc.Payments.CreatePaymentIntent(c.Request.Context(), amount, pc.Currency)
	if err != nil {
		pc.Logger.Warn("Payment intent creation failed",
			zap.Int64("amount", amount),
			zap.String("email", middleware.GetEmail(c)),
			zap.Error(err),
		)
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}

// RecordPayment stores the payment and removes the cart entries it settles.
func (pc *PaymentController) RecordPayment(c *gin.Context) {
	var payment models.PaymentRecord
	if !bindJSON(c, &payment) {
		return
	}
	res, err := pc.Checkout.RecordPayment(c.Request.Context(), &payment)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
