package repository

import (
	"context"
	"errors"
	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) WithTx(tx *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: tx}
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*model.Result, error) {
	var res model.Result
	err := r.DB.WithContext(ctx).First(&res, "id = ?", id).Error
	return &res, err
}

func (r *ResultRepository) FindByExamAndStudent(ctx context.Context, examID, studentID string) (*model.Result, error) {
	var res model.Result
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByIDs returns the results in the order of ids, skipping ids with no row.
func (r *ResultRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Result, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []*model.Result
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Result, len(found))
	for _, res := range found {
		byID[res.ID] = res
	}
	ordered := make([]*model.Result, 0, len(found))
	for _, id := range ids {
		if res, ok := byID[id]; ok {
			ordered = append(ordered, res)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *ResultRepository) ListByExam(ctx context.Context, examID string) ([]model.Result, error) {
	var rs []model.Result
	err := r.DB.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("`rank` asc, last_modified asc").
		Find(&rs).Error
	return rs, err
}

func (r *ResultRepository) CountByExam(ctx context.Context, examID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Result{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

// Upsert finds the result of (ExamID, StudentID) and replaces it with res,
// keeping its identity, or creates it. The replaced row is returned, nil when
// res was created. Run it inside a transaction.
func (r *ResultRepository) Upsert(ctx context.Context, res *model.Result) (*model.Result, error) {
	existing, err := r.FindByExamAndStudent(ctx, res.ExamID, res.StudentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.DB.WithContext(ctx).Create(res).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res.ID = existing.ID
	res.CreatedAt = existing.CreatedAt
	if err := r.DB.WithContext(ctx).Save(res).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *ResultRepository) UpdateRank(ctx context.Context, id string, rank int) error {
	return r.DB.WithContext(ctx).Model(&model.Result{}).Where("id = ?", id).UpdateColumn("rank", rank).Error
}

func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.Result{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
