package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutorhub/internal/repository"
)

func TestNotFoundOr(t *testing.T) {
	t.Run("no-row sentinel maps to not found", func(t *testing.T) {
		err := notFoundOr(fmt.Errorf("topic: %w", repository.ErrNoRows), "topic", "set topic covered")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("query failure stays a query failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := notFoundOr(cause, "topic", "set topic covered")
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "set topic covered")
	})
}
