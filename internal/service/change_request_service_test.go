package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutorhub/internal/model"
)

func TestFileRequestBatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := occ(now, now.Add(time.Hour), model.OccurrenceStatusScheduled)
	b := occ(now, now.Add(time.Hour), model.OccurrenceStatusScheduled)
	c := occ(now, now.Add(time.Hour), model.OccurrenceStatusScheduled)

	t.Run("all succeed", func(t *testing.T) {
		results := fileRequestBatch([]*model.SessionOccurrence{a, b}, func(*model.SessionOccurrence) error {
			return nil
		})
		require.Len(t, results, 2)
		for _, res := range results {
			assert.True(t, res.OK)
			assert.Empty(t, res.Error)
		}
	})

	t.Run("failed sibling leaves completed requests standing", func(t *testing.T) {
		results := fileRequestBatch([]*model.SessionOccurrence{a, b, c}, func(target *model.SessionOccurrence) error {
			if target.ID == b.ID {
				return errors.New("insert failed")
			}
			return nil
		})
		require.Len(t, results, 3)

		assert.Equal(t, a.ID, results[0].OccurrenceID)
		assert.True(t, results[0].OK)

		assert.Equal(t, b.ID, results[1].OccurrenceID)
		assert.False(t, results[1].OK)
		assert.Equal(t, "could not create request", results[1].Error)

		assert.Equal(t, c.ID, results[2].OccurrenceID)
		assert.True(t, results[2].OK)
	})

	t.Run("empty target list", func(t *testing.T) {
		results := fileRequestBatch(nil, func(*model.SessionOccurrence) error {
			return nil
		})
		assert.Empty(t, results)
	})
}
