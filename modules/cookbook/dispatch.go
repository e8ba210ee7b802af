package cookbook

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono/pkg/types"
	domain "github.com/nerggnet/WebBackend/domain/cookbook"
	"github.com/nerggnet/WebBackend/modules/tablestore"
)

// Dispatcher maps commands onto repository calls and policies.
type Dispatcher struct {
	recipes       *Repository[domain.Recipe]
	menus         *Repository[domain.Menu]
	shoppingLists *Repository[domain.ShoppingList]
	metrics       *Metrics
	logger        types.Logger
}

// NewDispatcher creates a dispatcher over store.
func NewDispatcher(store tablestore.Store, maxUpdateAttempts int, metrics *Metrics, logger types.Logger) *Dispatcher {
	return &Dispatcher{
		recipes:       NewRepository[domain.Recipe](store, domain.CollectionRecipes, maxUpdateAttempts, metrics, logger),
		menus:         NewRepository[domain.Menu](store, domain.CollectionMenus, maxUpdateAttempts, metrics, logger),
		shoppingLists: NewRepository[domain.ShoppingList](store, domain.CollectionShoppingLists, maxUpdateAttempts, metrics, logger),
		metrics:       metrics,
		logger:        logger,
	}
}

// Handle runs one command against collection. Every outcome, including
// failures, is reported in the returned envelope.
func (d *Dispatcher) Handle(ctx context.Context, collection domain.Collection, cmd Command) Envelope {
	var env Envelope
	switch collection {
	case domain.CollectionRecipes:
		entities, msg, err := d.recipeCommand(ctx, cmd)
		env = respond(entities, msg, err)
	case domain.CollectionMenus:
		entities, msg, err := d.menuCommand(ctx, cmd)
		env = respond(entities, msg, err)
	case domain.CollectionShoppingLists:
		entities, msg, err := d.shoppingListCommand(ctx, cmd)
		env = respond(entities, msg, err)
	default:
		env = Failure(fmt.Errorf("%w: unknown collection %q", ErrValidation, collection))
	}

	d.metrics.observeCommand(string(collection), actionLabel(collection, cmd.Action), env.Reason)
	switch env.Reason {
	case ReasonNone:
	case ReasonFault, ReasonCorruptData:
		d.logger.Error("command failed", "collection", collection, "action", cmd.Action, "name", cmd.Name, "reason", env.Reason, "error", env.ErrorMessage)
	default:
		d.logger.Warn("command rejected", "collection", collection, "action", cmd.Action, "name", cmd.Name, "reason", env.Reason, "error", env.ErrorMessage)
	}
	return env
}

var collectionActions = map[domain.Collection][]string{
	domain.CollectionRecipes: {
		ActionInsert, ActionGet, ActionFind, ActionList, ActionRemove, ActionRename,
		ActionChangeLink, ActionChangePortions, ActionUpdateBaseInfo,
		ActionAddIngredient, ActionRemoveIngredient, ActionAddInstruction,
		ActionRemoveInstruction, ActionAddComment, ActionRemoveComment,
	},
	domain.CollectionMenus: {
		ActionInsert, ActionGet, ActionFind, ActionList, ActionRemove, ActionRename,
		ActionAddMenuItem, ActionRemoveMenuItem,
	},
	domain.CollectionShoppingLists: {
		ActionInsert, ActionGet, ActionFind, ActionList, ActionRemove, ActionRename,
		ActionAddShoppingItem, ActionRemoveShoppingItem, ActionAddItemComment,
		ActionRemoveItemComment,
	},
}

// Actions lists the actions accepted for collection.
func Actions(collection domain.Collection) []string {
	return append([]string(nil), collectionActions[collection]...)
}

// actionLabel bounds metric cardinality to known actions.
func actionLabel(collection domain.Collection, action string) string {
	for _, a := range collectionActions[collection] {
		if a == action {
			return action
		}
	}
	return "unknown"
}

func (d *Dispatcher) recipeCommand(ctx context.Context, cmd Command) ([]domain.Recipe, string, error) {
	repo := d.recipes
	switch cmd.Action {
	case ActionInsert:
		if cmd.Recipe == nil {
			return nil, "", missing("recipe")
		}
		r := cmd.Recipe.Normalize()
		if err := validateRecipe(r); err != nil {
			return nil, "", err
		}
		if err := r.Validate(); err != nil {
			return nil, "", err
		}
		v, err := repo.Insert(ctx, r.Name, r)
		return single(v, err, "Recipe '%s' inserted", r.Name)

	case ActionRename:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.NewName == "" {
			return nil, "", missing("new_name")
		}
		return update(ctx, repo, cmd.Name, domain.RenameRecipe(cmd.NewName),
			"Recipe '%s' renamed to '%s'", cmd.Name, cmd.NewName)

	case ActionChangeLink:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.Link == nil {
			return nil, "", missing("link")
		}
		return update(ctx, repo, cmd.Name, domain.ChangeLink(*cmd.Link), "Link of recipe '%s' changed", cmd.Name)

	case ActionChangePortions:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.Portions == nil {
			return nil, "", missing("portions")
		}
		if *cmd.Portions < 0 {
			return nil, "", invalid("portions must not be negative")
		}
		return update(ctx, repo, cmd.Name, domain.ChangePortions(*cmd.Portions),
			"Portions of recipe '%s' changed to %d", cmd.Name, *cmd.Portions)

	case ActionUpdateBaseInfo:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.Recipe == nil {
			return nil, "", missing("recipe")
		}
		info := cmd.Recipe
		if info.Name == "" {
			return nil, "", missing("recipe.name")
		}
		if info.Portions < 0 {
			return nil, "", invalid("portions must not be negative")
		}
		return update(ctx, repo, cmd.Name, domain.UpdateBaseInfo(info.Name, info.Portions, info.Link),
			"Base info of recipe '%s' updated", cmd.Name)

	case ActionAddIngredient:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.Ingredient == nil {
			return nil, "", missing("ingredient")
		}
		if err := validateIngredient(*cmd.Ingredient); err != nil {
			return nil, "", err
		}
		return update(ctx, repo, cmd.Name, domain.AddIngredient(*cmd.Ingredient),
			"Ingredient '%s' added to recipe '%s'", cmd.Ingredient.Product.Name, cmd.Name)

	case ActionRemoveIngredient:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.ProductName == "" {
			return nil, "", missing("product_name")
		}
		return update(ctx, repo, cmd.Name, domain.RemoveIngredient(cmd.ProductName),
			"Ingredient '%s' removed from recipe '%s'", cmd.ProductName, cmd.Name)

	case ActionAddInstruction, ActionRemoveInstruction:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.Instruction == "" {
			return nil, "", missing("instruction")
		}
		if cmd.Action == ActionAddInstruction {
			return update(ctx, repo, cmd.Name, domain.AddInstruction(cmd.Instruction),
				"Instruction added to recipe '%s'", cmd.Name)
		}
		return update(ctx, repo, cmd.Name, domain.RemoveInstruction(cmd.Instruction),
			"Instruction removed from recipe '%s'", cmd.Name)

	case ActionAddComment, ActionRemoveComment:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.Comment == "" {
			return nil, "", missing("comment")
		}
		if cmd.Action == ActionAddComment {
			return update(ctx, repo, cmd.Name, domain.AddComment(cmd.Comment),
				"Comment added to recipe '%s'", cmd.Name)
		}
		return update(ctx, repo, cmd.Name, domain.RemoveComment(cmd.Comment),
			"Comment removed from recipe '%s'", cmd.Name)

	default:
		return lookup(ctx, repo, cmd, "Recipe")
	}
}

func (d *Dispatcher) menuCommand(ctx context.Context, cmd Command) ([]domain.Menu, string, error) {
	repo := d.menus
	switch cmd.Action {
	case ActionInsert:
		if cmd.Menu == nil {
			return nil, "", missing("menu")
		}
		m := cmd.Menu.Normalize()
		if m.Name == "" {
			return nil, "", missing("menu.name")
		}
		for _, item := range m.Items {
			if err := validateMenuItem(item); err != nil {
				return nil, "", err
			}
		}
		if err := m.Validate(); err != nil {
			return nil, "", err
		}
		v, err := repo.Insert(ctx, m.Name, m)
		return single(v, err, "Menu '%s' inserted", m.Name)

	case ActionRename:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.NewName == "" {
			return nil, "", missing("new_name")
		}
		return update(ctx, repo, cmd.Name, domain.RenameMenu(cmd.NewName),
			"Menu '%s' renamed to '%s'", cmd.Name, cmd.NewName)

	case ActionAddMenuItem, ActionRemoveMenuItem:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.MenuItem == nil {
			return nil, "", missing("menu_item")
		}
		item := *cmd.MenuItem
		if err := validateMenuItem(item); err != nil {
			return nil, "", err
		}
		if cmd.Action == ActionAddMenuItem {
			return update(ctx, repo, cmd.Name, domain.AddMenuItem(item),
				"Recipe '%s' added to menu '%s' on %s", item.RecipeName, cmd.Name, item.Day)
		}
		return update(ctx, repo, cmd.Name, domain.RemoveMenuItem(item.RecipeName, item.Day),
			"Recipe '%s' removed from menu '%s' on %s", item.RecipeName, cmd.Name, item.Day)

	default:
		return lookup(ctx, repo, cmd, "Menu")
	}
}

func (d *Dispatcher) shoppingListCommand(ctx context.Context, cmd Command) ([]domain.ShoppingList, string, error) {
	repo := d.shoppingLists
	switch cmd.Action {
	case ActionInsert:
		if cmd.ShoppingList == nil {
			return nil, "", missing("shopping_list")
		}
		l := cmd.ShoppingList.Normalize()
		if l.Name == "" {
			return nil, "", missing("shopping_list.name")
		}
		for _, item := range l.Items {
			if err := validateShoppingItem(item); err != nil {
				return nil, "", err
			}
		}
		if err := l.Validate(); err != nil {
			return nil, "", err
		}
		v, err := repo.Insert(ctx, l.Name, l)
		return single(v, err, "Shopping list '%s' inserted", l.Name)

	case ActionRename:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.NewName == "" {
			return nil, "", missing("new_name")
		}
		return update(ctx, repo, cmd.Name, domain.RenameShoppingList(cmd.NewName),
			"Shopping list '%s' renamed to '%s'", cmd.Name, cmd.NewName)

	case ActionAddShoppingItem:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.ShoppingItem == nil {
			return nil, "", missing("shopping_item")
		}
		if err := validateShoppingItem(*cmd.ShoppingItem); err != nil {
			return nil, "", err
		}
		return update(ctx, repo, cmd.Name, domain.AddShoppingItem(*cmd.ShoppingItem),
			"Item '%s' added to shopping list '%s'", cmd.ShoppingItem.Name, cmd.Name)

	case ActionRemoveShoppingItem:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.ItemName == "" {
			return nil, "", missing("item_name")
		}
		return update(ctx, repo, cmd.Name, domain.RemoveShoppingItem(cmd.ItemName),
			"Item '%s' removed from shopping list '%s'", cmd.ItemName, cmd.Name)

	case ActionAddItemComment, ActionRemoveItemComment:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if cmd.ItemName == "" {
			return nil, "", missing("item_name")
		}
		if cmd.Comment == "" {
			return nil, "", missing("comment")
		}
		if cmd.Action == ActionAddItemComment {
			return update(ctx, repo, cmd.Name, domain.AddShoppingItemComment(cmd.ItemName, cmd.Comment),
				"Comment added to item '%s' in shopping list '%s'", cmd.ItemName, cmd.Name)
		}
		return update(ctx, repo, cmd.Name, domain.RemoveShoppingItemComment(cmd.ItemName, cmd.Comment),
			"Comment removed from item '%s' in shopping list '%s'", cmd.ItemName, cmd.Name)

	default:
		return lookup(ctx, repo, cmd, "Shopping list")
	}
}

// lookup handles the actions shared by every collection besides insert and
// rename.
func lookup[T Aggregate[T]](ctx context.Context, repo *Repository[T], cmd Command, noun string) ([]T, string, error) {
	switch cmd.Action {
	case ActionGet:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		v, err := repo.Get(ctx, cmd.Name)
		return single(v, err, "%s '%s' found", noun, cmd.Name)

	case ActionFind:
		partial := cmd.Prefix
		if partial == "" {
			partial = cmd.Name
		}
		found, err := repo.Find(ctx, partial)
		if err != nil {
			return nil, "", err
		}
		return found, fmt.Sprintf("Found %d matching '%s'", len(found), partial), nil

	case ActionList:
		all, err := repo.List(ctx)
		if err != nil {
			return nil, "", err
		}
		return all, fmt.Sprintf("Found %d", len(all)), nil

	case ActionRemove:
		if err := requireName(cmd); err != nil {
			return nil, "", err
		}
		if err := repo.Remove(ctx, cmd.Name); err != nil {
			return nil, "", err
		}
		return nil, fmt.Sprintf("%s '%s' removed", noun, cmd.Name), nil

	case "":
		return nil, "", missing("action")

	default:
		return nil, "", invalid(fmt.Sprintf("unknown action %q", cmd.Action))
	}
}

func update[T Aggregate[T]](ctx context.Context, repo *Repository[T], key string, policy domain.Policy[T], format string, args ...any) ([]T, string, error) {
	v, err := repo.Update(ctx, key, policy)
	if err != nil {
		return nil, "", err
	}
	return []T{v}, fmt.Sprintf(format, args...), nil
}

func single[T any](v T, err error, format string, args ...any) ([]T, string, error) {
	if err != nil {
		return nil, "", err
	}
	return []T{v}, fmt.Sprintf(format, args...), nil
}
