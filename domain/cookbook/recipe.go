package cookbook

func ingredientKey(i Ingredient) string { return i.Product.Name }

// AddIngredient appends an ingredient unless one with the same product name
// is already part of the recipe.
func AddIngredient(ingredient Ingredient) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		ingredients, err := appendUnique(next.Ingredients, ingredient.normalize(), ingredientKey)
		if err != nil {
			return r, err
		}
		next.Ingredients = ingredients
		return next, nil
	}
}

// RemoveIngredient removes the ingredient with the given product name.
func RemoveIngredient(productName string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		ingredients, err := removeOne(next.Ingredients, productName, ingredientKey)
		if err != nil {
			return r, err
		}
		next.Ingredients = ingredients
		return next, nil
	}
}

// AddInstruction appends a step unless the exact same text is already present.
func AddInstruction(instruction string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		instructions, err := appendUnique(next.Instructions, instruction, identity)
		if err != nil {
			return r, err
		}
		next.Instructions = instructions
		return next, nil
	}
}

// RemoveInstruction removes the step with exactly this text.
func RemoveInstruction(instruction string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		instructions, err := removeOne(next.Instructions, instruction, identity)
		if err != nil {
			return r, err
		}
		next.Instructions = instructions
		return next, nil
	}
}

// AddComment appends a comment unless the exact same text is already present.
func AddComment(comment string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		comments, err := appendUnique(next.Comments, comment, identity)
		if err != nil {
			return r, err
		}
		next.Comments = comments
		return next, nil
	}
}

// RemoveComment removes the comment with exactly this text.
func RemoveComment(comment string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		comments, err := removeOne(next.Comments, comment, identity)
		if err != nil {
			return r, err
		}
		next.Comments = comments
		return next, nil
	}
}

// RenameRecipe changes the name field only. The storage key of the recipe is
// fixed at insert time and is not affected.
func RenameRecipe(newName string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		next.Name = newName
		return next, nil
	}
}

// ChangeLink replaces the recipe link.
func ChangeLink(link string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		next.Link = link
		return next, nil
	}
}

// ChangePortions replaces the portion count.
func ChangePortions(portions int) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		next.Portions = portions
		return next, nil
	}
}

// UpdateBaseInfo replaces name, portions and link in one write.
func UpdateBaseInfo(name string, portions int, link string) Policy[Recipe] {
	return func(r Recipe) (Recipe, error) {
		next := r.Clone()
		next.Name = name
		next.Portions = portions
		next.Link = link
		return next, nil
	}
}

func (i Ingredient) normalize() Ingredient {
	i.Product = i.Product.normalize()
	if i.Quantity.Unit == "" {
		i.Quantity.Unit = UnitNotDefined
	}
	return i
}
