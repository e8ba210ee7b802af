package cookbook

type menuItemKey struct {
	recipe string
	day    WeekDay
}

func (k menuItemKey) String() string { return k.recipe + " on " + string(k.day) }

func keyOfMenuItem(i MenuItem) menuItemKey { return menuItemKey{recipe: i.RecipeName, day: i.Day} }

// AddMenuItem appends an item unless the same recipe is already planned for
// the same day.
func AddMenuItem(item MenuItem) Policy[Menu] {
	return func(m Menu) (Menu, error) {
		next := m.Clone()
		items, err := appendUnique(next.Items, item, keyOfMenuItem)
		if err != nil {
			return m, err
		}
		next.Items = items
		return next, nil
	}
}

// RemoveMenuItem removes the item matching both recipe name and day. Items
// sharing only one of the two are kept.
func RemoveMenuItem(recipeName string, day WeekDay) Policy[Menu] {
	return func(m Menu) (Menu, error) {
		next := m.Clone()
		items, err := removeOne(next.Items, menuItemKey{recipe: recipeName, day: day}, keyOfMenuItem)
		if err != nil {
			return m, err
		}
		next.Items = items
		return next, nil
	}
}

// RenameMenu changes the name field only; the storage key is unchanged.
func RenameMenu(newName string) Policy[Menu] {
	return func(m Menu) (Menu, error) {
		next := m.Clone()
		next.Name = newName
		return next, nil
	}
}
