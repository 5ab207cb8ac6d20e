package service

import (
	"context"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/pkg/database"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB

	users     *repository.UserRepository
	exams     *repository.ExamRepository
	results   *repository.ResultRepository
	questions *repository.QuestionRepository
	appeals   *repository.AppealRepository
	courses   *repository.CourseRepository

	storage *StorageService
	locker  *LocalExamLocker
	result  *ResultService
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		users:     repository.NewUserRepository(db),
		exams:     repository.NewExamRepository(db),
		results:   repository.NewResultRepository(db),
		questions: repository.NewQuestionRepository(db),
		appeals:   repository.NewAppealRepository(db),
		courses:   repository.NewCourseRepository(db),
		storage: &StorageService{Provider: &LocalStorageProvider{
			Config: &config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		}},
		locker: NewLocalExamLocker(),
	}
	f.result = NewResultService(db, f.exams, f.results, f.users, f.questions, f.appeals, f.storage, f.locker,
		&config.ResultConfig{ResubmissionPolicy: policy, MaxAttempts: 3})
	return f
}

func (f *fixture) user(username string, role model.UserRole) *model.User {
	f.t.Helper()
	u := &model.User{Username: username, Password: "x", Role: role, Name: username}
	require.NoError(f.t, f.users.Create(f.ctx, u))
	return u
}

func (f *fixture) student(username string) *model.User {
	return f.user(username, model.Student)
}

// mcq creates a question with n options of which only index correct is right.
func (f *fixture) mcq(marks float64, n, correct int) *model.MCQQuestion {
	f.t.Helper()
	q := &model.MCQQuestion{Text: "question", Marks: marks}
	for i := 0; i < n; i++ {
		q.Options = append(q.Options, model.MCQOption{Text: "option", IsCorrect: i == correct})
	}
	require.NoError(f.t, f.questions.CreateMCQ(f.ctx, q))
	return q
}

func (f *fixture) exam(questions ...*model.MCQQuestion) *model.Exam {
	f.t.Helper()
	e := &model.Exam{Name: "midterm", DateTime: time.Now()}
	for _, q := range questions {
		e.MCQQuestionIDs = append(e.MCQQuestionIDs, q.ID)
		e.MaxMarks += q.Marks
	}
	require.NoError(f.t, f.exams.Create(f.ctx, e))
	return e
}

// scenarioExam has two one-mark questions, correct at index 2 and 1.
func (f *fixture) scenarioExam() *model.Exam {
	return f.exam(f.mcq(1, 4, 2), f.mcq(1, 4, 1))
}

func (f *fixture) reloadExam(id string) *model.Exam {
	f.t.Helper()
	e, err := f.exams.FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return e
}

func (f *fixture) submit(examID, studentID string, selected ...int) (*model.Result, error) {
	return f.result.Submit(f.ctx, &SubmitResultRequest{
		ExamID:     examID,
		StudentID:  studentID,
		MCQResults: answers(selected...),
	})
}

func (f *fixture) mustSubmit(examID, studentID string, selected ...int) *model.Result {
	f.t.Helper()
	res, err := f.submit(examID, studentID, selected...)
	require.NoError(f.t, err)
	return res
}

// rankOf reads the persisted rank of a student's result.
func (f *fixture) rankOf(examID, studentID string) int {
	f.t.Helper()
	res, err := f.results.FindByExamAndStudent(f.ctx, examID, studentID)
	require.NoError(f.t, err)
	return res.Rank
}

func answers(selected ...int) []model.MCQAnswer {
	out := make([]model.MCQAnswer, len(selected))
	for i := range selected {
		opt := selected[i]
		out[i] = model.MCQAnswer{SelectedOption: &opt}
	}
	return out
}
