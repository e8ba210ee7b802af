// Package cookbook provides the aggregates of the cookbook backend (recipes,
// menus and shopping lists) together with the pure mutation policies applied
// to them.
package cookbook

// Collection names an aggregate collection. It doubles as the table store
// collection the aggregates are persisted in.
type Collection string

const (
	// CollectionRecipes holds Recipe aggregates.
	CollectionRecipes Collection = "recipes"
	// CollectionMenus holds Menu aggregates.
	CollectionMenus Collection = "menus"
	// CollectionShoppingLists holds ShoppingList aggregates.
	CollectionShoppingLists Collection = "shoppinglists"
)

// Collections lists every aggregate collection.
func Collections() []Collection {
	return []Collection{CollectionRecipes, CollectionMenus, CollectionShoppingLists}
}

// Product is something that can be cooked with or bought.
type Product struct {
	Name     string   `json:"name"`
	Link     string   `json:"link,omitempty"`
	Comments []string `json:"comments"`
}

// Valid reports whether the product has a name.
func (p Product) Valid() bool {
	return p.Name != ""
}

// Quantity is an amount expressed in a unit.
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
}

// Ingredient is a quantified product used by a recipe.
// Ingredients are unique within a recipe by product name.
type Ingredient struct {
	Product  Product  `json:"product"`
	Quantity Quantity `json:"quantity"`
}

// Recipe is the aggregate root of the recipes collection.
type Recipe struct {
	Name         string       `json:"name"`
	Link         string       `json:"link,omitempty"`
	Portions     int          `json:"portions"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Comments     []string     `json:"comments"`
}

// MenuItem schedules a recipe on a week day.
// Menu items are unique within a menu by the (recipe name, week day) pair.
type MenuItem struct {
	RecipeName string  `json:"recipe_name"`
	Day        WeekDay `json:"day"`
}

// Menu is the aggregate root of the menus collection.
type Menu struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// ShoppingItem is one line of a shopping list, unique within the list by name.
type ShoppingItem struct {
	Name     string     `json:"name"`
	Product  Ingredient `json:"product"`
	Comments []string   `json:"comments"`
}

// ShoppingList is the aggregate root of the shopping lists collection.
type ShoppingList struct {
	Name  string         `json:"name"`
	Items []ShoppingItem `json:"items"`
}

// NewRecipe returns a recipe with empty child collections.
func NewRecipe(name string, portions int, link string) Recipe {
	return Recipe{
		Name:         name,
		Link:         link,
		Portions:     portions,
		Ingredients:  []Ingredient{},
		Instructions: []string{},
		Comments:     []string{},
	}
}

// NewMenu returns a menu without items.
func NewMenu(name string) Menu {
	return Menu{Name: name, Items: []MenuItem{}}
}

// NewShoppingList returns a shopping list without items.
func NewShoppingList(name string) ShoppingList {
	return ShoppingList{Name: name, Items: []ShoppingItem{}}
}

// Normalize returns a copy of the recipe whose child collections, including
// nested comment lists, are non-nil so they always serialize as arrays.
func (r Recipe) Normalize() Recipe {
	return r.Clone()
}

// Normalize returns a copy of the menu with a non-nil item list.
func (m Menu) Normalize() Menu {
	return m.Clone()
}

// Normalize returns a copy of the shopping list with non-nil lists.
func (l ShoppingList) Normalize() ShoppingList {
	return l.Clone()
}

func (r *Recipe) fillEmpty() {
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	for i := range r.Ingredients {
		r.Ingredients[i] = r.Ingredients[i].normalize()
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Comments == nil {
		r.Comments = []string{}
	}
}

func (m *Menu) fillEmpty() {
	if m.Items == nil {
		m.Items = []MenuItem{}
	}
}

func (l *ShoppingList) fillEmpty() {
	if l.Items == nil {
		l.Items = []ShoppingItem{}
	}
	for i := range l.Items {
		l.Items[i] = l.Items[i].normalize()
	}
}

func (p Product) normalize() Product {
	if p.Comments == nil {
		p.Comments = []string{}
	}
	return p
}

func (s ShoppingItem) normalize() ShoppingItem {
	if s.Comments == nil {
		s.Comments = []string{}
	}
	s.Product = s.Product.normalize()
	return s
}
