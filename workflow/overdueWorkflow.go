package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/models"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func oneQuantity() decimal.Decimal {
	return decimal.NewFromInt(1)
}

// MarkOverdueInvoices flips open invoices past their due date to Overdue and
// assesses the configured late fee once per invoice.
func MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	ctx = utils.SetSkipTenantScopeInContext(ctx, true)

	var invoices []*models.Invoice
	err := db.WithContext(ctx).
		Preload("LineItems").
		Where("current_status IN ?", []models.InvoiceStatus{models.InvoiceStatusSent, models.InvoiceStatusPartial}).
		Where("due_date IS NOT NULL AND due_date < ?", asOf).
		Find(&invoices).Error
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, invoice := range invoices {
		if err := markOverdue(ctx, invoice, asOf); err != nil {
			config.LogError(logger, "workflow", "MarkOverdueInvoices",
				fmt.Sprintf("invoice %d", invoice.ID), nil, err)
			continue
		}
		marked++
	}
	return marked, nil
}

func markOverdue(ctx context.Context, invoice *models.Invoice, asOf time.Time) error {
	db := config.GetDB()
	eng := engine.New(engine.Config{AllowOverpayment: config.AllowOverpayment()})

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(invoice).
			Update("CurrentStatus", models.InvoiceStatusOverdue).Error; err != nil {
			return err
		}

		if !lateFeeDue(invoice, asOf) {
			return nil
		}

		fee := eng.AdjustmentAmount(invoice.Total, *invoice.LateFeeAmount, *invoice.LateFeeType)
		if !fee.IsPositive() {
			return nil
		}

		feeItem := models.InvoiceLineItem{
			CommunityId: invoice.CommunityId,
			InvoiceId:   invoice.ID,
			Name:        lateFeeLineName,
			Description: "Assessed " + asOf.Format("2006-01-02"),
			UnitCost:    fee,
			Quantity:    oneQuantity(),
			LineTotal:   fee,
		}
		if err := tx.WithContext(ctx).Create(&feeItem).Error; err != nil {
			return err
		}

		items := make([]engine.LineItem, 0, len(invoice.LineItems)+1)
		for _, li := range invoice.LineItems {
			items = append(items, engine.LineItem{
				Name:      li.Name,
				UnitCost:  li.UnitCost,
				Quantity:  li.Quantity,
				LineTotal: li.LineTotal,
			})
		}
		items = append(items, engine.LineItem{
			Name:      feeItem.Name,
			UnitCost:  feeItem.UnitCost,
			Quantity:  feeItem.Quantity,
			LineTotal: feeItem.LineTotal,
		})

		totals, err := eng.ComputeTotals(items, invoice.TaxRate)
		if err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(invoice).Updates(map[string]interface{}{
			"Subtotal":  totals.Subtotal,
			"TaxAmount": totals.TaxAmount,
			"Total":     totals.Total,
		}).Error
	})
}

// lateFeeDue is true when the block is fully configured, its grace date has
// passed, and no fee line has been added yet.
func lateFeeDue(invoice *models.Invoice, asOf time.Time) bool {
	if invoice.LateFeeEnabled == nil || !*invoice.LateFeeEnabled {
		return false
	}
	if invoice.LateFeeAmount == nil || invoice.LateFeeType == nil || invoice.LateFeeDate == nil {
		return false
	}
	if asOf.Before(*invoice.LateFeeDate) {
		return false
	}
	for _, li := range invoice.LineItems {
		if li.Name == lateFeeLineName {
			return false
		}
	}
	return true
}
