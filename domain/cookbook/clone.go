package cookbook

import "github.com/tiendc/go-deepcopy"

// Clone returns a deep copy of the recipe with nil lists replaced by empty
// ones. Policies work on clones so the aggregate they were given is never
// modified.
func (r Recipe) Clone() Recipe {
	var out Recipe
	mustCopy(&out, &r)
	out.fillEmpty()
	return out
}

// Clone returns a deep copy of the menu.
func (m Menu) Clone() Menu {
	var out Menu
	mustCopy(&out, &m)
	out.fillEmpty()
	return out
}

// Clone returns a deep copy of the shopping list.
func (l ShoppingList) Clone() ShoppingList {
	var out ShoppingList
	mustCopy(&out, &l)
	out.fillEmpty()
	return out
}

// mustCopy panics on failure: source and destination always share the same
// concrete type, so deepcopy can only fail on a programming error.
func mustCopy(dst, src any) {
	if err := deepcopy.Copy(dst, src); err != nil {
		panic("cookbook: deep copy failed: " + err.Error())
	}
}
