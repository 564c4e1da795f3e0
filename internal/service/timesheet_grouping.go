package service

import (
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/tutorhub/tutorhub/internal/model"
)

// GroupEntries collapses a flat entry list into display rows: entries
// logged together under one group session merge into a single row with
// summed duration and earnings, everything else stays a singleton.
// Output is sorted ascending by date. Pure; recomputed per request.
func GroupEntries(entries []*model.TimesheetEntry) []model.GroupedEntry {
	groupIdx := make(map[uuid.UUID]int)
	var grouped []model.GroupedEntry

	for _, entry := range entries {
		if entry.SessionType == model.SessionTypeGroup && entry.GroupSessionID != nil {
			id := *entry.GroupSessionID
			idx, ok := groupIdx[id]
			if !ok {
				// first entry of the group seeds the row
				grouped = append(grouped, model.GroupedEntry{
					Type: model.GroupedEntryGroup,
					ID:   id,
					Date: entry.Date,
				})
				idx = len(grouped) - 1
				groupIdx[id] = idx
			}
			row := &grouped[idx]
			row.Entries = append(row.Entries, *entry)
			row.TotalDuration += entry.Duration
			row.Members = append(row.Members, model.GroupedMember{
				StudentID:   entry.StudentID,
				StudentName: entry.StudentName,
				Present:     entry.Present,
			})
			continue
		}

		grouped = append(grouped, model.GroupedEntry{
			Type:          model.GroupedEntryIndividual,
			ID:            entry.ID,
			Date:          entry.Date,
			Entries:       []model.TimesheetEntry{*entry},
			TotalDuration: entry.Duration,
		})
	}

	for i := range grouped {
		grouped[i].TotalEarnings = sumEarnings(grouped[i].Entries)
	}

	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Date.Before(grouped[j].Date)
	})

	return grouped
}

// sumEarnings adds up decimal-string amounts. The wire representation is
// a decimal string, so coerce before summing and format back to two
// places. Unparseable amounts count as zero.
func sumEarnings(entries []model.TimesheetEntry) string {
	var total float64
	for _, entry := range entries {
		amount, err := strconv.ParseFloat(entry.TutorEarnings, 64)
		if err != nil {
			continue
		}
		total += amount
	}
	return strconv.FormatFloat(total, 'f', 2, 64)
}
