package cookbook

import (
	"fmt"
	"slices"
)

func shoppingItemKey(i ShoppingItem) string { return i.Name }

// AddShoppingItem appends an item unless one with the same name exists.
func AddShoppingItem(item ShoppingItem) Policy[ShoppingList] {
	return func(l ShoppingList) (ShoppingList, error) {
		next := l.Clone()
		items, err := appendUnique(next.Items, item.normalize(), shoppingItemKey)
		if err != nil {
			return l, err
		}
		next.Items = items
		return next, nil
	}
}

// RemoveShoppingItem removes the item with the given name.
func RemoveShoppingItem(name string) Policy[ShoppingList] {
	return func(l ShoppingList) (ShoppingList, error) {
		next := l.Clone()
		items, err := removeOne(next.Items, name, shoppingItemKey)
		if err != nil {
			return l, err
		}
		next.Items = items
		return next, nil
	}
}

// RenameShoppingList changes the name field only; the storage key is unchanged.
func RenameShoppingList(newName string) Policy[ShoppingList] {
	return func(l ShoppingList) (ShoppingList, error) {
		next := l.Clone()
		next.Name = newName
		return next, nil
	}
}

// AddShoppingItemComment appends a comment to the named item. A missing item
// is ErrChildNotFound, an identical comment ErrDuplicateChild.
func AddShoppingItemComment(itemName, comment string) Policy[ShoppingList] {
	return func(l ShoppingList) (ShoppingList, error) {
		next := l.Clone()
		i := slices.IndexFunc(next.Items, func(s ShoppingItem) bool { return s.Name == itemName })
		if i < 0 {
			return l, fmt.Errorf("%w: %s", ErrChildNotFound, itemName)
		}
		comments, err := appendUnique(next.Items[i].Comments, comment, identity)
		if err != nil {
			return l, err
		}
		next.Items[i].Comments = comments
		return next, nil
	}
}

// RemoveShoppingItemComment removes a comment from the named item.
func RemoveShoppingItemComment(itemName, comment string) Policy[ShoppingList] {
	return func(l ShoppingList) (ShoppingList, error) {
		next := l.Clone()
		i := slices.IndexFunc(next.Items, func(s ShoppingItem) bool { return s.Name == itemName })
		if i < 0 {
			return l, fmt.Errorf("%w: %s", ErrChildNotFound, itemName)
		}
		comments, err := removeOne(next.Items[i].Comments, comment, identity)
		if err != nil {
			return l, err
		}
		next.Items[i].Comments = comments
		return next, nil
	}
}
