package utils

import (
	"context"

	"bitbucket.org/communitydesk/hoa_backend/config"
)

type ModelChangeLocker interface {
	CheckEditable(context.Context) error
}

/* DB fetching */

// fetch model from db
// (may return RecordNotFound)
func FetchSingleModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch model from db
// (ctx's community_id is used in query's WHERE, may return RecordNotFound)
func FetchModel[T any](ctx context.Context, communityId string, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("community_id = ?", communityId)
	// preloading
	for _, field := range associations {
		dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch model and check that its current status allows edits
func FetchModelForChange[T ModelChangeLocker](ctx context.Context, communityId string, id int, associations ...string) (*T, error) {
	result, err := FetchModel[T](ctx, communityId, id, associations...)
	if err != nil {
		return nil, err
	}
	if err := (*result).CheckEditable(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
