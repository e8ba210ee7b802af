package cookbook

import "fmt"

// uniqueBy reports the first element whose key repeats an earlier one.
func uniqueBy[E any, K comparable](items []E, key func(E) K) error {
	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicateChild, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Validate checks that every child list holds each uniqueness key at most
// once, the same keys the Add policies enforce.
func (r Recipe) Validate() error {
	if err := uniqueBy(r.Ingredients, ingredientKey); err != nil {
		return err
	}
	if err := uniqueBy(r.Instructions, identity); err != nil {
		return err
	}
	return uniqueBy(r.Comments, identity)
}

// Validate rejects a menu planning the same recipe twice on one day.
func (m Menu) Validate() error {
	return uniqueBy(m.Items, keyOfMenuItem)
}

// Validate rejects repeated item names and repeated comments on one item.
func (l ShoppingList) Validate() error {
	if err := uniqueBy(l.Items, shoppingItemKey); err != nil {
		return err
	}
	for _, item := range l.Items {
		if err := uniqueBy(item.Comments, identity); err != nil {
			return fmt.Errorf("%s: %w", item.Name, err)
		}
	}
	return nil
}
