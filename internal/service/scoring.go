package service

import "exam_portal_backend/internal/model"

// ScoreMCQ pairs answers with questions by position. An answer scores the
// question's marks when its selected option exists and is flagged correct;
// unanswered and out-of-range selections score zero.
func ScoreMCQ(questions []model.MCQQuestion, answers []model.MCQAnswer) float64 {
	var score float64
	for i, answer := range answers {
		if i >= len(questions) {
			break
		}
		if answer.SelectedOption == nil {
			continue
		}
		opt := *answer.SelectedOption
		q := questions[i]
		if opt < 0 || opt >= len(q.Options) {
			continue
		}
		if q.Options[opt].IsCorrect {
			score += q.Marks
		}
	}
	return score
}
