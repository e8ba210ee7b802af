package cookbook

import (
	"fmt"

	domain "github.com/nerggnet/WebBackend/domain/cookbook"
)

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, field)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func requireName(cmd Command) error {
	if cmd.Name == "" {
		return missing("name")
	}
	return nil
}

func validateRecipe(r domain.Recipe) error {
	if r.Name == "" {
		return missing("recipe.name")
	}
	if r.Portions < 0 {
		return invalid("portions must not be negative")
	}
	for _, ing := range r.Ingredients {
		if err := validateIngredient(ing); err != nil {
			return err
		}
	}
	return nil
}

func validateIngredient(i domain.Ingredient) error {
	if !i.Product.Valid() {
		return missing("ingredient.product.name")
	}
	if i.Quantity.Amount < 0 {
		return invalid("amount must not be negative")
	}
	return nil
}

func validateMenuItem(item domain.MenuItem) error {
	if item.RecipeName == "" {
		return missing("menu_item.recipe_name")
	}
	if item.Day == "" {
		return missing("menu_item.day")
	}
	return nil
}

func validateShoppingItem(item domain.ShoppingItem) error {
	if item.Name == "" {
		return missing("shopping_item.name")
	}
	if item.Product.Quantity.Amount < 0 {
		return invalid("amount must not be negative")
	}
	return nil
}
