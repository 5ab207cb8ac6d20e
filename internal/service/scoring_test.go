package service

import (
	"exam_portal_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func question(marks float64, correct ...bool) model.MCQQuestion {
	q := model.MCQQuestion{Marks: marks}
	for _, c := range correct {
		q.Options = append(q.Options, model.MCQOption{IsCorrect: c})
	}
	return q
}

func TestScoreMCQ(t *testing.T) {
	questions := []model.MCQQuestion{
		question(1, false, false, true, false),
		question(2, false, true),
		question(0.5, true, true, false),
	}

	tests := []struct {
		name    string
		answers []model.MCQAnswer
		want    float64
	}{
		{"all correct", answers(2, 1, 0), 3.5},
		{"second correct flag", answers(2, 1, 1), 3.5},
		{"all wrong", answers(0, 0, 2), 0},
		{"fewer answers than questions", answers(2), 1},
		{"no answers", nil, 0},
		{"out of range", answers(9, 2, 3), 0},
		{"negative", answers(-1, 1), 2},
		{"unanswered", []model.MCQAnswer{{}, answers(1)[0]}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreMCQ(questions, tt.answers))
		})
	}
}

func TestScoreMCQ_IsPositional(t *testing.T) {
	first := question(1, true, false)
	second := question(5, false, true)

	a := answers(0, 1)
	assert.Equal(t, 6.0, ScoreMCQ([]model.MCQQuestion{first, second}, a))
	// the same answers against the reordered list hit the wrong options
	assert.Equal(t, 0.0, ScoreMCQ([]model.MCQQuestion{second, first}, a))
}

func TestScoreMCQ_IgnoresAnswersBeyondQuestions(t *testing.T) {
	assert.Equal(t, 1.0, ScoreMCQ([]model.MCQQuestion{question(1, true)}, answers(0, 0, 0)))
}
