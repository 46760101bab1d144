package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("Bacalhau à Brás", decimal.NewFromFloat(12.5))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "Bacalhau à Brás", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(12.5)))
		assert.True(t, product.Visible)
		assert.True(t, product.Available)
		assert.True(t, product.Orderable())
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct("Francesinha", decimal.NewFromInt(11))
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("", decimal.NewFromInt(5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Sopa", decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestProductVisibility(t *testing.T) {
	product, err := NewProduct("Arroz de Marisco", decimal.NewFromInt(15))
	require.NoError(t, err)

	t.Run("hidden product is not orderable", func(t *testing.T) {
		product.Hide()
		assert.False(t, product.Visible)
		assert.False(t, product.Orderable())

		product.Show()
		assert.True(t, product.Orderable())
	})

	t.Run("sold out product is listed but not orderable", func(t *testing.T) {
		product.MarkSoldOut()
		assert.True(t, product.Visible)
		assert.False(t, product.Orderable())

		product.MarkAvailable()
		assert.True(t, product.Orderable())
	})
}

func TestProductTagsAndNutrition(t *testing.T) {
	product, err := NewProduct("Salada", decimal.NewFromInt(7))
	require.NoError(t, err)

	t.Run("accepts known tags", func(t *testing.T) {
		err := product.SetTags(DietaryTags{DietaryVegan, DietaryGlutenFree})
		require.NoError(t, err)
		assert.Len(t, product.Tags, 2)
	})

	t.Run("rejects unknown tag", func(t *testing.T) {
		err := product.SetTags(DietaryTags{"keto"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown dietary tag")
	})

	t.Run("rejects negative nutrition values", func(t *testing.T) {
		assert.Error(t, product.SetNutrition(Nutrition{Calories: -1}))
		assert.NoError(t, product.SetNutrition(Nutrition{Calories: 320, Protein: 12, Carbs: 40, Fat: 9}))
		assert.Equal(t, 320, product.Nutrition.Calories)
	})
}

func TestDietaryTagsRoundTrip(t *testing.T) {
	tags := DietaryTags{DietaryVegetarian, DietarySpicy}

	value, err := tags.Value()
	require.NoError(t, err)

	var decoded DietaryTags
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, tags, decoded)
}

func TestNewCategory(t *testing.T) {
	t.Run("creates category", func(t *testing.T) {
		category, err := NewCategory("Pratos Principais")
		require.NoError(t, err)
		assert.True(t, category.Active)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("")
		require.Error(t, err)
	})
}
