package repository

import (
	"context"
	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type AppealRepository struct {
	DB *gorm.DB
}

func NewAppealRepository(db *gorm.DB) *AppealRepository {
	return &AppealRepository{DB: db}
}

func (r *AppealRepository) WithTx(tx *gorm.DB) *AppealRepository {
	return &AppealRepository{DB: tx}
}

func (r *AppealRepository) Create(ctx context.Context, a *model.Appeal) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AppealRepository) FindByID(ctx context.Context, id string) (*model.Appeal, error) {
	var a model.Appeal
	err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *AppealRepository) ListByExam(ctx context.Context, examID string) ([]model.Appeal, error) {
	var as []model.Appeal
	err := r.DB.WithContext(ctx).Where("exam_id = ?", examID).Order("created_at asc").Find(&as).Error
	return as, err
}

func (r *AppealRepository) Update(ctx context.Context, a *model.Appeal) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *AppealRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.Appeal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppealRepository) DeleteByResult(ctx context.Context, resultID string) error {
	return r.DB.WithContext(ctx).Where("result_id = ?", resultID).Delete(&model.Appeal{}).Error
}
