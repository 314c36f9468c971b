package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateArticle(t *testing.T) {
	t.Run("valid article", func(t *testing.T) {
		err := ValidateArticle(&Article{Title: "Cat", Content: "Cats are mammals."})
		assert.NoError(t, err)
	})

	t.Run("nil article", func(t *testing.T) {
		err := ValidateArticle(nil)
		assert.ErrorIs(t, err, ErrInvalidArticle)
	})

	t.Run("empty title", func(t *testing.T) {
		err := ValidateArticle(&Article{Content: "Cats are mammals."})
		assert.ErrorIs(t, err, ErrInvalidArticle)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("empty content", func(t *testing.T) {
		err := ValidateArticle(&Article{Title: "Cat"})
		assert.ErrorIs(t, err, ErrInvalidArticle)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})
}

func TestValidateQuery(t *testing.T) {
	t.Run("non-empty query", func(t *testing.T) {
		assert.NoError(t, ValidateQuery("quantum"))
	})

	t.Run("empty query", func(t *testing.T) {
		assert.ErrorIs(t, ValidateQuery(""), ErrEmptyQuery)
	})

	t.Run("whitespace-only query", func(t *testing.T) {
		assert.ErrorIs(t, ValidateQuery("   \t\n"), ErrEmptyQuery)
	})
}
