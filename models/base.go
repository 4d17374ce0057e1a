package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// publishInvoiceEvent is fire-and-forget. Event delivery is not part of the
// invoice write transaction, so a failed publish only logs.
func publishInvoiceEvent(ctx context.Context, communityId string, invoiceId int, unitId int, action string) {
	event := config.InvoiceEvent{
		CommunityId:   communityId,
		InvoiceId:     invoiceId,
		UnitId:        unitId,
		Action:        action,
		OccurredAt:    time.Now().UTC(),
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	if _, err := config.PublishInvoiceEvent(ctx, event); err != nil {
		config.LogError(config.GetLogger(), "models", "publishInvoiceEvent", "publish", event, err)
	}
}

func calculateDueDate(date time.Time, policy DueDatePolicy) *time.Time {
	var dueDate time.Time
	switch policy {
	case DueDatePolicyDueOnReceipt:
		dueDate = date
	case DueDatePolicyNet15:
		dueDate = date.AddDate(0, 0, 15)
	case DueDatePolicyNet30, DueDatePolicyUsePaymentTerms:
		dueDate = date.AddDate(0, 0, 30)
	case DueDatePolicyNet45:
		dueDate = date.AddDate(0, 0, 45)
	case DueDatePolicyNet60:
		dueDate = date.AddDate(0, 0, 60)
	default:
		dueDate = date.AddDate(0, 0, 30)
	}
	return &dueDate
}

// nextInvoiceNumber hands out INV-<n> per community. The redis counter is a
// fast path; when redis is unavailable we fall back to a max(id) scan, which
// is good enough because invoice numbers only need to be unique, not gapless.
func nextInvoiceNumber(ctx context.Context, db *gorm.DB, communityId string) (string, error) {
	seq, err := config.GetRedisCounter(ctx, "invoiceSeq:"+communityId)
	if err == nil && seq > 0 {
		return fmt.Sprintf("INV-%06d", seq), nil
	}

	var maxId int64
	if err := db.WithContext(ctx).Model(&Invoice{}).
		Where("community_id = ?", communityId).
		Select("COALESCE(MAX(id), 0)").Scan(&maxId).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", maxId+1), nil
}
