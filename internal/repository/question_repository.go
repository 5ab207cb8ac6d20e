package repository

import (
	"context"
	"exam_portal_backend/internal/model"
	"fmt"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) CreateMCQ(ctx context.Context, q *model.MCQQuestion) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindMCQByID(ctx context.Context, id string) (*model.MCQQuestion, error) {
	var q model.MCQQuestion
	err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error
	return &q, err
}

// FindMCQByIDs returns the questions in the order of ids. Duplicated ids yield
// the same question twice. A missing id is reported as gorm.ErrRecordNotFound.
func (r *QuestionRepository) FindMCQByIDs(ctx context.Context, ids []string) ([]model.MCQQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []model.MCQQuestion
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.MCQQuestion, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	ordered := make([]model.MCQQuestion, len(ids))
	for i, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("mcq question %s: %w", id, gorm.ErrRecordNotFound)
		}
		ordered[i] = q
	}
	return ordered, nil
}

func (r *QuestionRepository) UpdateMCQ(ctx context.Context, q *model.MCQQuestion) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) DeleteMCQ(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.MCQQuestion{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuestionRepository) CreateCode(ctx context.Context, q *model.CodeQuestion) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindCodeByID(ctx context.Context, id string) (*model.CodeQuestion, error) {
	var q model.CodeQuestion
	err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error
	return &q, err
}

func (r *QuestionRepository) FindCodeByIDs(ctx context.Context, ids []string) ([]model.CodeQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []model.CodeQuestion
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.CodeQuestion, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	ordered := make([]model.CodeQuestion, len(ids))
	for i, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("code question %s: %w", id, gorm.ErrRecordNotFound)
		}
		ordered[i] = q
	}
	return ordered, nil
}

func (r *QuestionRepository) UpdateCode(ctx context.Context, q *model.CodeQuestion) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) DeleteCode(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.CodeQuestion{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
