package services

import (
	"fmt"

	"hotel-platform-server/utils"
)

// ChargeRequest is what the booking orchestrator submits to the gateway.
type ChargeRequest struct {
	Amount        float64
	Currency      string
	Method        string
	CustomerEmail string
	Reference     string
}

// ChargeResult carries the gateway's answer back into the transaction.
type ChargeResult struct {
	TransactionID string
	Approved      bool
	RawPayload    []byte
}

// PaymentGateway abstracts the external payment provider. A decline is a
// normal result (Approved=false), not an error; errors mean the provider
// itself failed.
type PaymentGateway interface {
	Charge(req ChargeRequest) (*ChargeResult, error)
	Refund(transactionID string, amount float64) (*ChargeResult, error)
}

// MockPaymentGateway approves every charge. It stands in for the real
// provider in development and single-tenant deployments.
type MockPaymentGateway struct{}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (g *MockPaymentGateway) Charge(req ChargeRequest) (*ChargeResult, error) {
	txnID := "mock_" + utils.GenerateShortToken(12)
	payload := []byte(fmt.Sprintf(`{"gateway":"mock","amount":%.2f,"currency":%q}`, req.Amount, req.Currency))
	return &ChargeResult{TransactionID: txnID, Approved: true, RawPayload: payload}, nil
}

func (g *MockPaymentGateway) Refund(transactionID string, amount float64) (*ChargeResult, error) {
	txnID := "mock_refund_" + utils.GenerateShortToken(12)
	payload := []byte(fmt.Sprintf(`{"gateway":"mock","refunds":%q,"amount":%.2f}`, transactionID, amount))
	return &ChargeResult{TransactionID: txnID, Approved: true, RawPayload: payload}, nil
}
