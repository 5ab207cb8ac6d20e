package repository

import (
	"context"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// WithTx binds the repository to a running transaction.
func (r *ExamRepository) WithTx(tx *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: tx}
}

func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*model.Exam, error) {
	var e model.Exam
	err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *ExamRepository) List(ctx context.Context, courseID string, page, limit int) ([]model.Exam, int64, error) {
	var es []model.Exam
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Exam{})
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("date_time desc").Offset(offset).Limit(limit).Find(&es).Error
	return es, total, err
}

// Save writes the whole exam document if nobody else wrote it since it was
// read, and bumps its version. A stale version yields util.ErrConcurrentUpdate
// and leaves e untouched.
func (r *ExamRepository) Save(ctx context.Context, e *model.Exam) error {
	read := e.Version
	e.Version = read + 1
	res := r.DB.WithContext(ctx).Model(e).Where("version = ?", read).Select("*").Updates(e)
	if res.Error != nil {
		e.Version = read
		return res.Error
	}
	if res.RowsAffected == 0 {
		e.Version = read
		return util.ErrConcurrentUpdate
	}
	return nil
}

func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.Exam{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in
// either MySQL or SQLite string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// FindReferencingQuestion lists the exams whose MCQ or code question list
// (picked by column) contains questionID. The lists are stored as JSON text,
// so LIKE only narrows the rows; membership is confirmed on the decoded list.
func (r *ExamRepository) FindReferencingQuestion(ctx context.Context, column, questionID string) ([]model.Exam, error) {
	var candidates []model.Exam
	pattern := `%"` + likeEscaper.Replace(questionID) + `"%`
	err := r.DB.WithContext(ctx).
		Where(clause.Expr{SQL: "? LIKE ? ESCAPE '!'", Vars: []any{clause.Column{Name: column}, pattern}}).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	es := candidates[:0]
	for _, e := range candidates {
		ids := e.MCQQuestionIDs
		if column == "code_question_ids" {
			ids = e.CodeQuestionIDs
		}
		if slices.Contains(ids, questionID) {
			es = append(es, e)
		}
	}
	return es, nil
}
