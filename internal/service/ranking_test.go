package service

import (
	"exam_portal_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ranked(marks ...float64) []*model.Result {
	out := make([]*model.Result, len(marks))
	for i, m := range marks {
		out[i] = &model.Result{
			UUIDBase:  model.UUIDBase{ID: string(rune('a' + i))},
			StudentID: "s" + string(rune('a'+i)),
			Marks:     m,
		}
	}
	return out
}

func ids(rs []*model.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestAssignRanks_DescendingAndDense(t *testing.T) {
	rs := ranked(3, 7, 5, 1)
	AssignRanks(rs)

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(rs))
	for i, r := range rs {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestAssignRanks_TiesKeepInsertionOrder(t *testing.T) {
	rs := ranked(2, 5, 2, 5, 2)
	AssignRanks(rs)

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(rs))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, []int{rs[0].Rank, rs[1].Rank, rs[2].Rank, rs[3].Rank, rs[4].Rank})
}

func TestAssignRanks_ReturnsOnlyChanged(t *testing.T) {
	rs := ranked(9, 4, 6)
	rs[0].Rank = 1
	rs[1].Rank = 2
	rs[2].Rank = 3

	changed := AssignRanks(rs)
	assert.ElementsMatch(t, []string{"b", "c"}, ids(changed))

	assert.Empty(t, AssignRanks(rs))
}

func TestAssignRanks_Empty(t *testing.T) {
	assert.Empty(t, AssignRanks(nil))
}

func TestDeriveHighest(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		got := deriveHighest(model.HighestMarksInfo{Marks: 4, StudentID: "sx"}, nil)
		assert.Equal(t, model.HighestMarksInfo{}, got)
	})

	t.Run("first holder", func(t *testing.T) {
		rs := ranked(2, 8)
		AssignRanks(rs)
		got := deriveHighest(model.HighestMarksInfo{}, rs)
		assert.Equal(t, model.HighestMarksInfo{Marks: 8, StudentID: "sb"}, got)
	})

	t.Run("tie keeps the holder", func(t *testing.T) {
		rs := ranked(8, 8)
		AssignRanks(rs)
		got := deriveHighest(model.HighestMarksInfo{Marks: 8, StudentID: "sb"}, rs)
		assert.Equal(t, "sb", got.StudentID)
	})

	t.Run("holder dropped", func(t *testing.T) {
		rs := ranked(3, 6, 6)
		AssignRanks(rs)
		got := deriveHighest(model.HighestMarksInfo{Marks: 9, StudentID: "sa"}, rs)
		assert.Equal(t, model.HighestMarksInfo{Marks: 6, StudentID: "sb"}, got)
	})

	t.Run("holder dropped, earliest achiever wins", func(t *testing.T) {
		base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
		rs := ranked(6, 6, 2)
		rs[0].LastModified = base.Add(3 * time.Minute)
		rs[1].LastModified = base.Add(time.Minute)
		rs[2].LastModified = base
		AssignRanks(rs)
		got := deriveHighest(model.HighestMarksInfo{Marks: 9, StudentID: "sx"}, rs)
		assert.Equal(t, model.HighestMarksInfo{Marks: 6, StudentID: "sb"}, got)
	})
}
