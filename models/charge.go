package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"github.com/shopspring/decimal"
)

// Charge is a catalog entry for things a community bills its units:
// monthly assessments, amenity fees, fines, and so on. Invoice line items
// may reference a charge but always carry their own snapshot of the price.
type Charge struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CommunityId string          `gorm:"index;not null" json:"community_id"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"size:255" json:"description"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_cost"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c Charge) GetId() int {
	return c.ID
}

func (c Charge) GetCursor() string {
	return c.Name
}

type NewCharge struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

func (input *NewCharge) validate(ctx context.Context, communityId string, id int) error {
	if err := utils.ValidateUnique[Charge](ctx, communityId, "name", input.Name, id); err != nil {
		return errors.New("charge name already exists")
	}
	if input.UnitCost.IsNegative() {
		return errors.New("unit cost cannot be negative")
	}
	return nil
}

func CreateCharge(ctx context.Context, input *NewCharge) (*Charge, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(ctx, communityId, 0); err != nil {
		return nil, err
	}

	charge := Charge{
		CommunityId: communityId,
		Name:        input.Name,
		Description: input.Description,
		UnitCost:    input.UnitCost,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&charge).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

func UpdateCharge(ctx context.Context, id int, input *NewCharge) (*Charge, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(ctx, communityId, id); err != nil {
		return nil, err
	}

	charge, err := utils.FetchModel[Charge](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&charge).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
		"UnitCost":    input.UnitCost,
	}).Error
	if err != nil {
		return nil, err
	}
	return charge, nil
}

func DeleteCharge(ctx context.Context, id int) (*Charge, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	charge, err := utils.FetchModel[Charge](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	// charges referenced by line items are only deactivated
	count, err := utils.ResourceCountWhere[InvoiceLineItem](ctx, communityId, "charge_id = ?", id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if count > 0 {
		if err := db.WithContext(ctx).Model(&charge).Update("IsActive", utils.NewFalse()).Error; err != nil {
			return nil, err
		}
		return charge, nil
	}

	if err := db.WithContext(ctx).Delete(&charge).Error; err != nil {
		return nil, err
	}
	return charge, nil
}

func GetCharge(ctx context.Context, id int) (*Charge, error) {
	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}
	return utils.FetchModel[Charge](ctx, communityId, id)
}

func PaginateCharge(ctx context.Context, limit int, after *string, searchKey *string) ([]Edge[Charge], *PageInfo, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, nil, errors.New("community id is required")
	}

	if limit <= 0 {
		limit = config.SearchLimit
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Charge{}).Where("community_id = ?", communityId)
	if searchKey != nil && *searchKey != "" {
		dbCtx.Where("name LIKE ?", "%"+*searchKey+"%")
	}

	return FetchPageCompositeCursor[Charge](dbCtx, limit, after, "name", ">")
}
