package service

import (
	"cmp"
	"exam_portal_backend/internal/model"
	"slices"
)

// AssignRanks orders results by marks, highest first, keeping the incoming
// order among equal marks, and stamps rank 1..n. The results whose rank
// changed are returned so only those need to be written back.
func AssignRanks(results []*model.Result) []*model.Result {
	slices.SortStableFunc(results, func(a, b *model.Result) int {
		return cmp.Compare(b.Marks, a.Marks)
	})

	var changed []*model.Result
	for i, r := range results {
		rank := i + 1
		if r.Rank != rank {
			r.Rank = rank
			changed = append(changed, r)
		}
	}
	return changed
}

// deriveHighest picks the top score of ranked results. The current holder
// keeps the title while still holding the top score; otherwise it goes to the
// result that reached the top score first, by LastModified, with rank order
// breaking equal timestamps.
func deriveHighest(current model.HighestMarksInfo, ranked []*model.Result) model.HighestMarksInfo {
	if len(ranked) == 0 {
		return model.HighestMarksInfo{}
	}
	top := ranked[0].Marks
	first := ranked[0]
	for _, r := range ranked {
		if r.Marks != top {
			break
		}
		if current.StudentID != "" && r.StudentID == current.StudentID {
			return model.HighestMarksInfo{Marks: top, StudentID: current.StudentID}
		}
		if r.LastModified.Before(first.LastModified) {
			first = r
		}
	}
	return model.HighestMarksInfo{Marks: top, StudentID: first.StudentID}
}
