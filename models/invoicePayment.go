package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodACH      PaymentMethod = "ach"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"

	// PaymentMethodCredit is written by the system for early-payment
	// discounts. Clients cannot submit it, it is absent from paymentMethods.
	PaymentMethodCredit PaymentMethod = "credit"
)

var paymentMethods = map[PaymentMethod]bool{
	PaymentMethodCheck:    true,
	PaymentMethodACH:      true,
	PaymentMethodCard:     true,
	PaymentMethodCash:     true,
	PaymentMethodTransfer: true,
}

type InvoicePayment struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CommunityId string          `gorm:"index;not null" json:"community_id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Reference   string          `gorm:"size:100" json:"reference"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	IsReversed  *bool           `gorm:"not null;default:false" json:"is_reversed"`
	ReversedAt  *time.Time      `json:"reversed_at"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoicePayment struct {
	InvoiceId   int             `json:"invoice_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      PaymentMethod   `json:"method" binding:"required"`
	Reference   string          `json:"reference"`
	PaymentDate time.Time       `json:"payment_date" binding:"required"`
	Notes       string          `json:"notes"`
}

func (input *NewInvoicePayment) validate() error {
	if !input.Amount.IsPositive() {
		return errors.New("payment amount must be positive")
	}
	if !paymentMethods[input.Method] {
		return errors.New("invalid payment method")
	}
	return nil
}

// earlyPaymentDiscount returns the discount credited when a first payment
// lands on or before the discount deadline. Zero otherwise.
func earlyPaymentDiscount(invoice *Invoice, paymentDate time.Time) decimal.Decimal {
	if invoice.DiscountEnabled == nil || !*invoice.DiscountEnabled {
		return decimal.Zero
	}
	if invoice.DiscountAmount == nil || invoice.DiscountType == nil || invoice.DiscountDate == nil {
		return decimal.Zero
	}
	if paymentDate.After(*invoice.DiscountDate) {
		return decimal.Zero
	}
	for _, p := range invoice.Payments {
		if p.IsReversed == nil || !*p.IsReversed {
			return decimal.Zero
		}
	}
	return newEngine().AdjustmentAmount(invoice.Total, *invoice.DiscountAmount, *invoice.DiscountType)
}

// settlePayment works out whether the early-payment discount can be credited
// alongside the new payment, and what the open balance comes to. Crediting
// the discount must never overdraw the invoice: when the payment already
// covers the discounted price on its own, the discount is forfeited and only
// the payment counts.
func settlePayment(eng *engine.Engine, invoice *Invoice, discount decimal.Decimal, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	base := make([]engine.Payment, 0, len(invoice.Payments)+2)
	for _, p := range invoice.Payments {
		reversed := p.IsReversed != nil && *p.IsReversed
		base = append(base, engine.Payment{Amount: p.Amount, IsReversed: reversed})
	}

	if discount.IsPositive() {
		withDiscount := append(append([]engine.Payment{}, base...),
			engine.Payment{Amount: discount},
			engine.Payment{Amount: amount})
		balance, err := eng.ComputeBalanceDue(invoice.Total, withDiscount)
		if err == nil {
			return discount, balance, nil
		}
		var overpaid *engine.OverpaymentError
		if !errors.As(err, &overpaid) {
			return decimal.Zero, decimal.Zero, err
		}
	}

	balance, err := eng.ComputeBalanceDue(invoice.Total, append(base, engine.Payment{Amount: amount}))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return decimal.Zero, balance, nil
}

// ApplyInvoicePayment records a payment and moves the invoice status forward.
// The open balance is recomputed from scratch every time so a tampered total
// surfaces as an error instead of silently settling the invoice.
func ApplyInvoicePayment(ctx context.Context, input *NewInvoicePayment) (*InvoicePayment, error) {
	db := config.GetDB()

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	invoice, err := utils.FetchModel[Invoice](ctx, communityId, input.InvoiceId, "Payments")
	if err != nil {
		return nil, errors.New("invoice not found")
	}

	switch invoice.CurrentStatus {
	case InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue, InvoiceStatusPaymentRejected:
		// payable
	default:
		return nil, errors.New("invoice is " + string(invoice.CurrentStatus) + " and cannot accept payments")
	}

	eng := newEngine()
	discount, balance, err := settlePayment(eng, invoice,
		earlyPaymentDiscount(invoice, input.PaymentDate), input.Amount)
	if err != nil {
		return nil, err
	}

	payment := InvoicePayment{
		CommunityId: communityId,
		InvoiceId:   invoice.ID,
		Amount:      input.Amount,
		Method:      input.Method,
		Reference:   input.Reference,
		PaymentDate: input.PaymentDate,
		IsReversed:  utils.NewFalse(),
		Notes:       input.Notes,
	}

	newStatus := InvoiceStatusPartial
	if !balance.IsPositive() {
		newStatus = InvoiceStatusPaid
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	// the credited discount is stored as its own payment row so the balance
	// read back later agrees with the one that drove the status here
	if discount.IsPositive() {
		credit := InvoicePayment{
			CommunityId: communityId,
			InvoiceId:   invoice.ID,
			Amount:      discount,
			Method:      PaymentMethodCredit,
			Reference:   "early payment discount",
			PaymentDate: input.PaymentDate,
			IsReversed:  utils.NewFalse(),
		}
		if err := tx.WithContext(ctx).Create(&credit).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Model(&invoice).
		Update("CurrentStatus", newStatus).Error; err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	publishInvoiceEvent(ctx, communityId, invoice.ID, invoice.UnitId, "payment_applied")
	return &payment, nil
}

// ReverseInvoicePayment marks a payment reversed (bounced check, failed ACH)
// and reopens the invoice.
func ReverseInvoicePayment(ctx context.Context, id int) (*InvoicePayment, error) {
	db := config.GetDB()

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	payment, err := utils.FetchModel[InvoicePayment](ctx, communityId, id)
	if err != nil {
		return nil, err
	}
	if payment.IsReversed != nil && *payment.IsReversed {
		return nil, errors.New("payment is already reversed")
	}

	invoice, err := utils.FetchModel[Invoice](ctx, communityId, payment.InvoiceId, "Payments")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	err = tx.WithContext(ctx).Model(&payment).Updates(map[string]interface{}{
		"IsReversed": utils.NewTrue(),
		"ReversedAt": &now,
	}).Error
	if err != nil {
		return nil, err
	}

	if invoice.CurrentStatus == InvoiceStatusPaid || invoice.CurrentStatus == InvoiceStatusPartial {
		if err := tx.WithContext(ctx).Model(&invoice).
			Update("CurrentStatus", InvoiceStatusPaymentRejected).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	publishInvoiceEvent(ctx, communityId, invoice.ID, invoice.UnitId, "payment_reversed")
	return payment, nil
}

func GetInvoicePayments(ctx context.Context, invoiceId int) ([]*InvoicePayment, error) {
	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	db := config.GetDB()
	var payments []*InvoicePayment
	err := db.WithContext(ctx).
		Where("community_id = ? AND invoice_id = ?", communityId, invoiceId).
		Order("payment_date, id").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
