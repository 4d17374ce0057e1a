package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/engine"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Invoice struct {
	ID              int              `gorm:"primary_key" json:"id"`
	CommunityId     string           `gorm:"index;not null" json:"community_id"`
	InvoiceNumber   string           `gorm:"size:50;not null;index" json:"invoice_number"`
	UnitId          int              `gorm:"index;not null" json:"unit_id"`
	Unit            *Unit            `json:"unit"`
	CurrentStatus   InvoiceStatus    `gorm:"size:30;not null;default:'Draft'" json:"current_status"`
	InvoiceDate     time.Time        `gorm:"not null" json:"invoice_date"`
	DueDate         *time.Time       `json:"due_date"`
	DueDatePolicy   DueDatePolicy    `gorm:"size:30;not null;default:'net_30'" json:"due_date_policy"`
	Frequency       engine.Frequency `gorm:"size:20;not null;default:'one-time'" json:"frequency"`
	RemainingCycles *engine.Cycles   `gorm:"size:10" json:"remaining_cycles"`
	NextRunDate     *time.Time       `gorm:"index" json:"next_run_date"`
	ParentInvoiceId *int             `gorm:"index" json:"parent_invoice_id"`
	Notes           string           `gorm:"type:text" json:"notes"`

	TaxRate   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_rate"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`

	DiscountEnabled *bool                  `gorm:"not null;default:false" json:"discount_enabled"`
	DiscountAmount  *decimal.Decimal       `gorm:"type:decimal(20,4)" json:"discount_amount"`
	DiscountType    *engine.AdjustmentType `gorm:"size:20" json:"discount_type"`
	DiscountDate    *time.Time             `json:"discount_date"`

	LateFeeEnabled *bool                  `gorm:"not null;default:false" json:"late_fee_enabled"`
	LateFeeAmount  *decimal.Decimal       `gorm:"type:decimal(20,4)" json:"late_fee_amount"`
	LateFeeType    *engine.AdjustmentType `gorm:"size:20" json:"late_fee_type"`
	LateFeeDate    *time.Time             `json:"late_fee_date"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceId" json:"line_items"`
	Payments  []InvoicePayment  `gorm:"foreignKey:InvoiceId" json:"payments"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type InvoiceLineItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CommunityId string          `gorm:"index;not null" json:"community_id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	ChargeId    int             `gorm:"index;default:null" json:"charge_id"`
	Name        string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Description string          `gorm:"size:1000" json:"description"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_total"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	UnitId          int                  `json:"unit_id" binding:"required"`
	InvoiceDate     time.Time            `json:"invoice_date" binding:"required"`
	DueDatePolicy   DueDatePolicy        `json:"due_date_policy"`
	Frequency       engine.Frequency     `json:"frequency"`
	RemainingCycles *engine.Cycles       `json:"remaining_cycles"`
	Notes           string               `json:"notes"`
	TaxRate         decimal.Decimal      `json:"tax_rate"`
	LineItems       []NewInvoiceLineItem `json:"line_items" binding:"required"`

	DiscountEnabled *bool                  `json:"discount_enabled"`
	DiscountAmount  *decimal.Decimal       `json:"discount_amount"`
	DiscountType    *engine.AdjustmentType `json:"discount_type"`
	DiscountDate    *time.Time             `json:"discount_date"`

	LateFeeEnabled *bool                  `json:"late_fee_enabled"`
	LateFeeAmount  *decimal.Decimal       `json:"late_fee_amount"`
	LateFeeType    *engine.AdjustmentType `json:"late_fee_type"`
	LateFeeDate    *time.Time             `json:"late_fee_date"`
}

type NewInvoiceLineItem struct {
	ChargeId    int             `json:"charge_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Quantity    decimal.Decimal `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type InvoicesEdge Edge[Invoice]

type InvoicesConnection struct {
	Edges               []*InvoicesEdge     `json:"edges"`
	PageInfo            *PageInfo           `json:"pageInfo"`
	InvoiceTotalSummary InvoiceTotalSummary `json:"invoiceTotalSummary"`
}

type InvoiceTotalSummary struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	DueToday         decimal.Decimal `json:"due_today"`
	DueWithin30Days  decimal.Decimal `json:"due_within_30_days"`
	TotalOverdue     decimal.Decimal `json:"total_overdue"`
}

func (inv Invoice) GetCursor() string {
	return inv.CreatedAt.String()
}

func (inv Invoice) GetId() int {
	return inv.ID
}

// CheckEditable blocks structural edits on closed invoices.
func (inv Invoice) CheckEditable(_ context.Context) error {
	if config.StrictClosedInvoiceImmutability() && inv.CurrentStatus.IsTerminal() {
		return errors.New("invoice is " + string(inv.CurrentStatus) + " and can no longer be edited")
	}
	return nil
}

func newEngine() *engine.Engine {
	return engine.New(engine.Config{AllowOverpayment: config.AllowOverpayment()})
}

// normalizeDefaults fills the optional inputs an API client may omit. The
// enabled flags in particular must never reach the database as nil, their
// columns are NOT NULL.
func (input *NewInvoice) normalizeDefaults() {
	if input.Frequency == "" {
		input.Frequency = engine.FrequencyOneTime
	}
	if input.DueDatePolicy == "" {
		input.DueDatePolicy = DueDatePolicyNet30
	}
	if input.DiscountEnabled == nil {
		input.DiscountEnabled = utils.NewFalse()
	}
	if input.LateFeeEnabled == nil {
		input.LateFeeEnabled = utils.NewFalse()
	}
}

func (input *NewInvoice) engineItems() []engine.LineItem {
	items := make([]engine.LineItem, 0, len(input.LineItems))
	for _, li := range input.LineItems {
		items = append(items, engine.LineItem{
			Name:        li.Name,
			Description: li.Description,
			UnitCost:    li.UnitCost,
			Quantity:    li.Quantity,
			LineTotal:   li.LineTotal,
			ChargeId:    li.ChargeId,
		})
	}
	return items
}

func (input *NewInvoice) discountBlock() engine.ConditionalBlock {
	enabled := input.DiscountEnabled != nil && *input.DiscountEnabled
	return engine.ConditionalBlock{
		Field:   "discount",
		Enabled: enabled,
		Amount:  input.DiscountAmount,
		Type:    input.DiscountType,
		Date:    input.DiscountDate,
	}
}

func (input *NewInvoice) lateFeeBlock() engine.ConditionalBlock {
	enabled := input.LateFeeEnabled != nil && *input.LateFeeEnabled
	return engine.ConditionalBlock{
		Field:   "late_fee",
		Enabled: enabled,
		Amount:  input.LateFeeAmount,
		Type:    input.LateFeeType,
		Date:    input.LateFeeDate,
	}
}

// validate runs resource checks plus the full engine pass: line items,
// recurrence, conditional blocks. Totals are computed separately because the
// caller needs them.
func (input *NewInvoice) validate(ctx context.Context, communityId string, eng *engine.Engine) error {

	chargeIds := make([]int, 0)
	for _, li := range input.LineItems {
		if li.ChargeId > 0 {
			chargeIds = append(chargeIds, li.ChargeId)
		}
	}

	communityFilter := utils.Filter{Cond: "community_id = ?", Values: []interface{}{communityId}}
	err := utils.MassValidateResourceIds(ctx, []utils.ValidationRule[int]{
		{Model: Unit{}, Ids: []int{input.UnitId}, Message: "unit not found", Filter: communityFilter},
		{Model: Charge{}, Ids: chargeIds, Message: "charge not found", Filter: communityFilter},
	})
	if err != nil {
		return err
	}

	if _, err := eng.ValidateLineItems(input.engineItems()); err != nil {
		return err
	}
	if err := eng.ValidateRecurrence(input.Frequency, input.RemainingCycles); err != nil {
		return err
	}
	if err := eng.ValidateConditionalBlock(input.discountBlock()); err != nil {
		return err
	}
	if err := eng.ValidateConditionalBlock(input.lateFeeBlock()); err != nil {
		return err
	}
	return nil
}

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	input.normalizeDefaults()

	eng := newEngine()
	if err := input.validate(ctx, communityId, eng); err != nil {
		return nil, err
	}

	totals, err := eng.ComputeTotals(input.engineItems(), input.TaxRate)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := nextInvoiceNumber(ctx, db, communityId)
	if err != nil {
		return nil, err
	}

	// recurring invoices get their first follow-up occurrence scheduled up front
	var nextRunDate *time.Time
	if input.Frequency != engine.FrequencyOneTime {
		next, err := eng.NextOccurrence(input.Frequency, input.InvoiceDate, 1)
		if err != nil {
			return nil, err
		}
		nextRunDate = &next
	}

	invoice := Invoice{
		CommunityId:     communityId,
		InvoiceNumber:   invoiceNumber,
		UnitId:          input.UnitId,
		CurrentStatus:   InvoiceStatusDraft,
		InvoiceDate:     input.InvoiceDate,
		DueDate:         calculateDueDate(input.InvoiceDate, input.DueDatePolicy),
		DueDatePolicy:   input.DueDatePolicy,
		Frequency:       input.Frequency,
		RemainingCycles: input.RemainingCycles,
		NextRunDate:     nextRunDate,
		Notes:           input.Notes,
		TaxRate:         input.TaxRate,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
		DiscountEnabled: input.DiscountEnabled,
		DiscountAmount:  input.DiscountAmount,
		DiscountType:    input.DiscountType,
		DiscountDate:    input.DiscountDate,
		LateFeeEnabled:  input.LateFeeEnabled,
		LateFeeAmount:   input.LateFeeAmount,
		LateFeeType:     input.LateFeeType,
		LateFeeDate:     input.LateFeeDate,
	}
	for _, li := range input.LineItems {
		invoice.LineItems = append(invoice.LineItems, InvoiceLineItem{
			CommunityId: communityId,
			ChargeId:    li.ChargeId,
			Name:        li.Name,
			Description: li.Description,
			UnitCost:    li.UnitCost,
			Quantity:    li.Quantity,
			LineTotal:   li.LineTotal,
		})
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	publishInvoiceEvent(ctx, communityId, invoice.ID, invoice.UnitId, "created")
	return &invoice, nil
}

func UpdateInvoice(ctx context.Context, id int, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	input.normalizeDefaults()

	eng := newEngine()
	if err := input.validate(ctx, communityId, eng); err != nil {
		return nil, err
	}

	invoice, err := utils.FetchModelForChange[Invoice](ctx, communityId, id, "LineItems")
	if err != nil {
		return nil, err
	}

	totals, err := eng.ComputeTotals(input.engineItems(), input.TaxRate)
	if err != nil {
		return nil, err
	}

	var nextRunDate *time.Time
	if input.Frequency != engine.FrequencyOneTime {
		next, err := eng.NextOccurrence(input.Frequency, input.InvoiceDate, 1)
		if err != nil {
			return nil, err
		}
		nextRunDate = &next
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	// line items are replaced wholesale, the snapshot belongs to the invoice
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoice.ID).
		Delete(&InvoiceLineItem{}).Error; err != nil {
		return nil, err
	}
	lineItems := make([]InvoiceLineItem, 0, len(input.LineItems))
	for _, li := range input.LineItems {
		lineItems = append(lineItems, InvoiceLineItem{
			CommunityId: communityId,
			InvoiceId:   invoice.ID,
			ChargeId:    li.ChargeId,
			Name:        li.Name,
			Description: li.Description,
			UnitCost:    li.UnitCost,
			Quantity:    li.Quantity,
			LineTotal:   li.LineTotal,
		})
	}
	if err := tx.WithContext(ctx).Create(&lineItems).Error; err != nil {
		return nil, err
	}

	err = tx.WithContext(ctx).Model(&invoice).Updates(map[string]interface{}{
		"UnitId":          input.UnitId,
		"InvoiceDate":     input.InvoiceDate,
		"DueDate":         calculateDueDate(input.InvoiceDate, input.DueDatePolicy),
		"DueDatePolicy":   input.DueDatePolicy,
		"Frequency":       input.Frequency,
		"RemainingCycles": input.RemainingCycles,
		"NextRunDate":     nextRunDate,
		"Notes":           input.Notes,
		"TaxRate":         input.TaxRate,
		"Subtotal":        totals.Subtotal,
		"TaxAmount":       totals.TaxAmount,
		"Total":           totals.Total,
		"DiscountEnabled": input.DiscountEnabled,
		"DiscountAmount":  input.DiscountAmount,
		"DiscountType":    input.DiscountType,
		"DiscountDate":    input.DiscountDate,
		"LateFeeEnabled":  input.LateFeeEnabled,
		"LateFeeAmount":   input.LateFeeAmount,
		"LateFeeType":     input.LateFeeType,
		"LateFeeDate":     input.LateFeeDate,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	invoice.LineItems = lineItems
	publishInvoiceEvent(ctx, communityId, invoice.ID, invoice.UnitId, "updated")
	return invoice, nil
}

// allowed status transitions, keyed by current status
var invoiceStatusTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:           {InvoiceStatusSent, InvoiceStatusInReview, InvoiceStatusCancelled},
	InvoiceStatusInReview:        {InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:            {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusPaymentRejected, InvoiceStatusCancelled},
	InvoiceStatusPartial:         {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusPaymentRejected, InvoiceStatusCancelled},
	InvoiceStatusOverdue:         {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusPaymentRejected, InvoiceStatusCancelled},
	InvoiceStatusPaymentRejected: {InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled},
}

func (s InvoiceStatus) canTransitionTo(target InvoiceStatus) bool {
	for _, allowed := range invoiceStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func UpdateStatusInvoice(ctx context.Context, id int, status InvoiceStatus) (*Invoice, error) {
	db := config.GetDB()

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	invoice, err := utils.FetchModel[Invoice](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	if !invoice.CurrentStatus.canTransitionTo(status) {
		return nil, errors.New("cannot change status from " + string(invoice.CurrentStatus) + " to " + string(status))
	}

	if err := db.WithContext(ctx).Model(&invoice).
		Update("CurrentStatus", status).Error; err != nil {
		return nil, err
	}

	publishInvoiceEvent(ctx, communityId, invoice.ID, invoice.UnitId, "status_changed")
	return invoice, nil
}

func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	invoice, err := utils.FetchModel[Invoice](ctx, communityId, id, "Payments")
	if err != nil {
		return nil, err
	}

	if invoice.CurrentStatus != InvoiceStatusDraft && invoice.CurrentStatus != InvoiceStatusCancelled {
		return nil, errors.New("only draft or cancelled invoices can be deleted")
	}
	for _, p := range invoice.Payments {
		if p.IsReversed == nil || !*p.IsReversed {
			return nil, errors.New("invoice has payments")
		}
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.WithContext(ctx).Delete(&invoice).Error; err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	publishInvoiceEvent(ctx, communityId, invoice.ID, invoice.UnitId, "deleted")
	return invoice, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}
	return utils.FetchModel[Invoice](ctx, communityId, id, "LineItems", "Payments", "Unit")
}

// BalanceDue recomputes the open balance from persisted totals and payments.
func (inv *Invoice) BalanceDue() (decimal.Decimal, error) {
	payments := make([]engine.Payment, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		reversed := p.IsReversed != nil && *p.IsReversed
		payments = append(payments, engine.Payment{Amount: p.Amount, IsReversed: reversed})
	}
	return newEngine().ComputeBalanceDue(inv.Total, payments)
}

// VerifyInvoiceTotals replays the totals computation against the stored line
// items and compares with the persisted figures.
func VerifyInvoiceTotals(ctx context.Context, id int) error {
	invoice, err := GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	items := make([]engine.LineItem, 0, len(invoice.LineItems))
	for _, li := range invoice.LineItems {
		items = append(items, engine.LineItem{
			Name:        li.Name,
			Description: li.Description,
			UnitCost:    li.UnitCost,
			Quantity:    li.Quantity,
			LineTotal:   li.LineTotal,
			ChargeId:    li.ChargeId,
		})
	}
	return newEngine().VerifyTotals(items, invoice.TaxRate, engine.Totals{
		Subtotal:  invoice.Subtotal,
		TaxAmount: invoice.TaxAmount,
		Total:     invoice.Total,
	})
}

func PaginateInvoice(ctx context.Context, limit *int, after *string,
	invoiceNumber *string,
	unitID *int,
	status *InvoiceStatus,
	startInvoiceDate *time.Time,
	endInvoiceDate *time.Time) (*InvoicesConnection, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	pageSize := config.SearchLimit
	if limit != nil && *limit > 0 {
		pageSize = *limit
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("community_id = ?", communityId)

	if invoiceNumber != nil && *invoiceNumber != "" {
		dbCtx.Where("invoice_number LIKE ?", "%"+*invoiceNumber+"%")
	}
	if unitID != nil && *unitID > 0 {
		dbCtx.Where("unit_id = ?", *unitID)
	}
	if status != nil {
		dbCtx.Where("current_status = ?", *status)
	}
	if startInvoiceDate != nil && endInvoiceDate != nil {
		dbCtx.Where("invoice_date BETWEEN ? AND ?", startInvoiceDate, endInvoiceDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Invoice](dbCtx, pageSize, after, "created_at", "<")
	if err != nil {
		return nil, err
	}

	var connection InvoicesConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		invoicesEdge := InvoicesEdge(edge)
		connection.Edges = append(connection.Edges, &invoicesEdge)
	}

	summary, err := GetInvoiceTotalSummary(ctx)
	if err != nil {
		return nil, err
	}
	connection.InvoiceTotalSummary = *summary

	return &connection, nil
}

func GetInvoiceTotalSummary(ctx context.Context) (*InvoiceTotalSummary, error) {
	var totalSummary InvoiceTotalSummary
	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	db := config.GetDB()
	openStatuses := []InvoiceStatus{InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue}

	err := db.WithContext(ctx).Model(&Invoice{}).
		Where("community_id = ? AND current_status IN ?", communityId, openStatuses).
		Select("COALESCE(SUM(total), 0)").Scan(&totalSummary.TotalOutstanding).Error
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	err = db.WithContext(ctx).Model(&Invoice{}).
		Where("community_id = ? AND current_status IN ? AND due_date >= ? AND due_date < ?",
			communityId, openStatuses, today, today.AddDate(0, 0, 1)).
		Select("COALESCE(SUM(total), 0)").Scan(&totalSummary.DueToday).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Invoice{}).
		Where("community_id = ? AND current_status IN ? AND due_date >= ? AND due_date < ?",
			communityId, openStatuses, today, today.AddDate(0, 0, 30)).
		Select("COALESCE(SUM(total), 0)").Scan(&totalSummary.DueWithin30Days).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Invoice{}).
		Where("community_id = ? AND current_status = ?", communityId, InvoiceStatusOverdue).
		Select("COALESCE(SUM(total), 0)").Scan(&totalSummary.TotalOverdue).Error
	if err != nil {
		return nil, err
	}

	return &totalSummary, nil
}
