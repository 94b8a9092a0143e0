package service

import (
	"context"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PaymentService starts card payments for donations.
type PaymentService struct {
	gateway PaymentGateway
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(gateway PaymentGateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

// CreateIntent converts a dollar price to cents and returns the client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price decimal.Decimal) (string, error) {
	price, err := wholeCents(price)
	if err != nil {
		return "", err
	}
	cents := price.Mul(hundred).IntPart()
	if cents <= 0 {
		return "", ErrInvalidAmount
	}
	return s.gateway.CreatePaymentIntent(ctx, cents)
}
