package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/utils"
)

type Unit struct {
	ID          int       `gorm:"primary_key" json:"id"`
	CommunityId string    `gorm:"index;not null" json:"community_id"`
	UnitNumber  string    `gorm:"size:50;not null" json:"unit_number" binding:"required"`
	Street      string    `gorm:"size:255" json:"street"`
	Building    string    `gorm:"size:100" json:"building"`
	SquareFeet  int       `json:"square_feet"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	Residents   []Resident `gorm:"foreignKey:UnitId" json:"residents"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u Unit) GetId() int {
	return u.ID
}

func (u Unit) GetCursor() string {
	return u.UnitNumber
}

type NewUnit struct {
	UnitNumber string `json:"unit_number" binding:"required"`
	Street     string `json:"street"`
	Building   string `json:"building"`
	SquareFeet int    `json:"square_feet"`
}

type Resident struct {
	ID          int       `gorm:"primary_key" json:"id"`
	CommunityId string    `gorm:"index;not null" json:"community_id"`
	UnitId      int       `gorm:"index;not null" json:"unit_id"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email       string    `gorm:"size:100" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	IsOwner     *bool     `gorm:"not null;default:true" json:"is_owner"`
	MovedInAt   *time.Time `json:"moved_in_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewResident struct {
	UnitId    int        `json:"unit_id" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsOwner   *bool      `json:"is_owner"`
	MovedInAt *time.Time `json:"moved_in_at"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewUnit) validate(ctx context.Context, communityId string, id int) error {
	if err := utils.ValidateUnique[Unit](ctx, communityId, "unit_number", input.UnitNumber, id); err != nil {
		return errors.New("unit number already exists")
	}
	return nil
}

func (input *NewResident) validate(ctx context.Context, communityId string) error {
	if err := utils.ValidateResourceId[Unit](ctx, communityId, input.UnitId); err != nil {
		return errors.New("unit not found")
	}
	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}

func CreateUnit(ctx context.Context, input *NewUnit) (*Unit, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(ctx, communityId, 0); err != nil {
		return nil, err
	}

	unit := Unit{
		CommunityId: communityId,
		UnitNumber:  input.UnitNumber,
		Street:      input.Street,
		Building:    input.Building,
		SquareFeet:  input.SquareFeet,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func UpdateUnit(ctx context.Context, id int, input *NewUnit) (*Unit, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(ctx, communityId, id); err != nil {
		return nil, err
	}

	unit, err := utils.FetchModel[Unit](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&unit).Updates(map[string]interface{}{
		"UnitNumber": input.UnitNumber,
		"Street":     input.Street,
		"Building":   input.Building,
		"SquareFeet": input.SquareFeet,
	}).Error
	if err != nil {
		return nil, err
	}
	return unit, nil
}

func DeactivateUnit(ctx context.Context, id int) (*Unit, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	unit, err := utils.FetchModel[Unit](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&unit).Update("IsActive", utils.NewFalse()).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

func GetUnit(ctx context.Context, id int) (*Unit, error) {
	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}
	return utils.FetchModel[Unit](ctx, communityId, id, "Residents")
}

func PaginateUnit(ctx context.Context, limit int, after *string, searchKey *string) ([]Edge[Unit], *PageInfo, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, nil, errors.New("community id is required")
	}

	if limit <= 0 {
		limit = config.SearchLimit
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Unit{}).Where("community_id = ?", communityId)
	if searchKey != nil && *searchKey != "" {
		dbCtx.Where("unit_number LIKE ?", "%"+*searchKey+"%")
	}

	return FetchPageCompositeCursor[Unit](dbCtx, limit, after, "unit_number", ">")
}

func CreateResident(ctx context.Context, input *NewResident) (*Resident, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(ctx, communityId); err != nil {
		return nil, err
	}

	isOwner := input.IsOwner
	if isOwner == nil {
		isOwner = utils.NewTrue()
	}

	resident := Resident{
		CommunityId: communityId,
		UnitId:      input.UnitId,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		IsOwner:     isOwner,
		MovedInAt:   input.MovedInAt,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&resident).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

func UpdateResident(ctx context.Context, id int, input *NewResident) (*Resident, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	if err := input.validate(ctx, communityId); err != nil {
		return nil, err
	}

	resident, err := utils.FetchModel[Resident](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&resident).Updates(map[string]interface{}{
		"UnitId":    input.UnitId,
		"Name":      input.Name,
		"Email":     input.Email,
		"Phone":     input.Phone,
		"IsOwner":   input.IsOwner,
		"MovedInAt": input.MovedInAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return resident, nil
}

func DeleteResident(ctx context.Context, id int) (*Resident, error) {

	communityId, ok := utils.GetCommunityIdFromContext(ctx)
	if !ok || communityId == "" {
		return nil, errors.New("community id is required")
	}

	resident, err := utils.FetchModel[Resident](ctx, communityId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&resident).Error; err != nil {
		return nil, err
	}
	return resident, nil
}
