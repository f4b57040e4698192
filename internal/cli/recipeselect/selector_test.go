package recipeselect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

func TestResolveRecipe(t *testing.T) {
	recipes := []api.Recipe{
		{ID: "r1", Title: "Egg Fried Rice"},
		{ID: "r2", Title: "Tomato Soup", IsFavorite: true},
	}

	t.Run("explicit argument wins", func(t *testing.T) {
		id, err := ResolveRecipe([]string{"abc"}, recipes, nil)
		require.NoError(t, err)
		assert.Equal(t, "abc", id)
	})

	t.Run("single recipe is picked without prompting", func(t *testing.T) {
		id, err := ResolveRecipe(nil, recipes[:1], func(string, []string) (int, error) {
			t.Fatal("prompt should not run")
			return 0, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "r1", id)
	})

	t.Run("prompt chooses among several", func(t *testing.T) {
		var shown []string
		id, err := ResolveRecipe(nil, recipes, func(_ string, items []string) (int, error) {
			shown = items
			return 1, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "r2", id)
		assert.Equal(t, []string{"Egg Fried Rice", "★ Tomato Soup"}, shown)
	})

	t.Run("cancelled prompt", func(t *testing.T) {
		_, err := ResolveRecipe(nil, recipes, func(string, []string) (int, error) {
			return -1, errors.New("interrupted")
		})
		assert.ErrorContains(t, err, "interrupted")
	})

	t.Run("nothing to choose", func(t *testing.T) {
		_, err := ResolveRecipe(nil, nil, nil)
		assert.ErrorIs(t, err, ErrNoRecipes)
	})
}
