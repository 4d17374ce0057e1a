package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/models"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/bsm/redislock"
	"gorm.io/gorm"
)

const (
	recurrenceHandlerName = "RecurrenceGenerate"
	lateFeeLineName       = "Late fee"
)

// GenerateDueInvoices walks every recurring invoice template whose
// next_run_date has arrived and emits the child invoice for that cycle.
// Safe to call from overlapping schedulers: each (template, cycle date) pair
// is guarded by a durable idempotency key, the redis lock only trims
// duplicate work.
func GenerateDueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	// the worker crosses tenants, scoping happens per template below
	ctx = utils.SetSkipTenantScopeInContext(ctx, true)

	var templates []*models.Invoice
	err := db.WithContext(ctx).
		Preload("LineItems").
		Where("frequency <> ? AND next_run_date IS NOT NULL AND next_run_date <= ?", engine.FrequencyOneTime, asOf).
		Where("current_status NOT IN ?", []models.InvoiceStatus{models.InvoiceStatusCancelled}).
		Find(&templates).Error
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, template := range templates {
		if err := generateCycleInvoice(ctx, template); err != nil {
			if err == ErrIdempotencyInProgress {
				continue
			}
			config.LogError(logger, "workflow", "GenerateDueInvoices",
				fmt.Sprintf("template %d", template.ID), nil, err)
			continue
		}
		generated++
	}
	return generated, nil
}

func generateCycleInvoice(ctx context.Context, template *models.Invoice) error {
	db := config.GetDB()
	eng := engine.New(engine.Config{AllowOverpayment: config.AllowOverpayment()})

	cycleDate := *template.NextRunDate
	messageId := fmt.Sprintf("%d|%s", template.ID, cycleDate.Format("2006-01-02"))

	// best effort, duplicates fall through to the idempotency key
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "recurrence:"+messageId, 30*time.Second, nil)
		if err == nil {
			defer lock.Release(ctx)
		} else if err != redislock.ErrNotObtained {
			config.LogError(config.GetLogger(), "workflow", "generateCycleInvoice", "redislock", messageId, err)
		}
	}

	var child *models.Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		skip, err := BeginIdempotency(tx, template.CommunityId, recurrenceHandlerName, messageId)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		created, err := emitChildInvoice(ctx, tx, eng, template, cycleDate)
		if err != nil {
			_ = MarkIdempotencyFailed(tx, template.CommunityId, recurrenceHandlerName, messageId, err)
			return err
		}
		child = created
		return MarkIdempotencySucceeded(tx, template.CommunityId, recurrenceHandlerName, messageId)
	})
	if err != nil || child == nil {
		return err
	}

	// publish only once the row is committed, a rollback must not leak an
	// event for an invoice that never existed
	event := config.InvoiceEvent{
		CommunityId:   template.CommunityId,
		InvoiceId:     child.ID,
		UnitId:        child.UnitId,
		Action:        "generated",
		OccurredAt:    time.Now().UTC(),
		CorrelationId: messageCorrelation(ctx),
	}
	if _, err := config.PublishInvoiceEvent(ctx, event); err != nil {
		config.LogError(config.GetLogger(), "workflow", "generateCycleInvoice", "publish", event, err)
	}
	return nil
}

func emitChildInvoice(ctx context.Context, tx *gorm.DB, eng *engine.Engine, template *models.Invoice, cycleDate time.Time) (*models.Invoice, error) {

	number, err := nextChildInvoiceNumber(ctx, tx, template.CommunityId)
	if err != nil {
		return nil, err
	}

	parentId := template.ID
	child := models.Invoice{
		CommunityId:     template.CommunityId,
		InvoiceNumber:   number,
		UnitId:          template.UnitId,
		CurrentStatus:   models.InvoiceStatusSent,
		InvoiceDate:     cycleDate,
		DueDatePolicy:   template.DueDatePolicy,
		Frequency:       engine.FrequencyOneTime,
		ParentInvoiceId: &parentId,
		Notes:           template.Notes,
		TaxRate:         template.TaxRate,
		Subtotal:        template.Subtotal,
		TaxAmount:       template.TaxAmount,
		Total:           template.Total,
		DiscountEnabled: template.DiscountEnabled,
		DiscountAmount:  template.DiscountAmount,
		DiscountType:    template.DiscountType,
		DiscountDate:    template.DiscountDate,
		LateFeeEnabled:  template.LateFeeEnabled,
		LateFeeAmount:   template.LateFeeAmount,
		LateFeeType:     template.LateFeeType,
		LateFeeDate:     template.LateFeeDate,
	}
	child.DueDate = dueDateFor(cycleDate, template.DueDatePolicy)
	for _, li := range template.LineItems {
		child.LineItems = append(child.LineItems, models.InvoiceLineItem{
			CommunityId: template.CommunityId,
			ChargeId:    li.ChargeId,
			Name:        li.Name,
			Description: li.Description,
			UnitCost:    li.UnitCost,
			Quantity:    li.Quantity,
			LineTotal:   li.LineTotal,
		})
	}

	if err := tx.WithContext(ctx).Create(&child).Error; err != nil {
		return nil, err
	}

	// advance the template to its next cycle
	updates := map[string]interface{}{}
	remaining := engine.CyclesEndless
	if template.RemainingCycles != nil {
		remaining = *template.RemainingCycles
	}
	next, done := eng.Decrement(remaining)
	updates["RemainingCycles"] = &next
	if done {
		updates["NextRunDate"] = nil
	} else {
		nextRun, err := eng.NextOccurrence(template.Frequency, cycleDate, 1)
		if err != nil {
			return nil, err
		}
		updates["NextRunDate"] = &nextRun
	}
	if err := tx.WithContext(ctx).Model(template).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &child, nil
}

func messageCorrelation(ctx context.Context) string {
	if v, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		return v
	}
	return ""
}

func dueDateFor(date time.Time, policy models.DueDatePolicy) *time.Time {
	var days int
	switch policy {
	case models.DueDatePolicyDueOnReceipt:
		days = 0
	case models.DueDatePolicyNet15:
		days = 15
	case models.DueDatePolicyNet45:
		days = 45
	case models.DueDatePolicyNet60:
		days = 60
	default:
		days = 30
	}
	due := date.AddDate(0, 0, days)
	return &due
}

// nextChildInvoiceNumber mirrors invoice numbering on the API path but runs
// inside the worker transaction.
func nextChildInvoiceNumber(ctx context.Context, tx *gorm.DB, communityId string) (string, error) {
	seq, err := config.GetRedisCounter(ctx, "invoiceSeq:"+communityId)
	if err == nil && seq > 0 {
		return fmt.Sprintf("INV-%06d", seq), nil
	}

	var maxId int64
	if err := tx.WithContext(ctx).Model(&models.Invoice{}).
		Where("community_id = ?", communityId).
		Select("COALESCE(MAX(id), 0)").Scan(&maxId).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", maxId+1), nil
}
