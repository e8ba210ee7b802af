package cookbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milk() ShoppingItem {
	return ShoppingItem{
		Name: "Milk",
		Product: Ingredient{
			Product:  Product{Name: "Milk", Comments: []string{}},
			Quantity: Quantity{Amount: 1, Unit: UnitLiter},
		},
		Comments: []string{},
	}
}

func TestShoppingItems(t *testing.T) {
	l := NewShoppingList("Saturday")

	l, err := AddShoppingItem(milk())(l)
	require.NoError(t, err)
	require.Len(t, l.Items, 1)

	_, err = AddShoppingItem(milk())(l)
	assert.ErrorIs(t, err, ErrDuplicateChild)

	_, err = RemoveShoppingItem("Bread")(l)
	assert.ErrorIs(t, err, ErrChildNotFound)

	emptied, err := RemoveShoppingItem("Milk")(l)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)
	assert.Len(t, l.Items, 1)
}

func TestShoppingItemComments(t *testing.T) {
	l, err := AddShoppingItem(milk())(NewShoppingList("Saturday"))
	require.NoError(t, err)

	l, err = AddShoppingItemComment("Milk", "lactose free")(l)
	require.NoError(t, err)
	assert.Equal(t, []string{"lactose free"}, l.Items[0].Comments)

	_, err = AddShoppingItemComment("Milk", "lactose free")(l)
	assert.ErrorIs(t, err, ErrDuplicateChild)

	_, err = AddShoppingItemComment("Bread", "sliced")(l)
	assert.ErrorIs(t, err, ErrChildNotFound)

	_, err = RemoveShoppingItemComment("Milk", "organic")(l)
	assert.ErrorIs(t, err, ErrChildNotFound)

	l, err = RemoveShoppingItemComment("Milk", "lactose free")(l)
	require.NoError(t, err)
	assert.Empty(t, l.Items[0].Comments)
}

func TestRenameShoppingList(t *testing.T) {
	got, err := RenameShoppingList("Sunday")(NewShoppingList("Saturday"))
	require.NoError(t, err)
	assert.Equal(t, "Sunday", got.Name)
}
