package cookbook

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	domain "github.com/nerggnet/WebBackend/domain/cookbook"
)

// Actions understood by the dispatcher. Not every action applies to every
// collection.
const (
	ActionInsert         = "insert"
	ActionGet            = "get"
	ActionFind           = "find"
	ActionList           = "list"
	ActionRemove         = "remove"
	ActionRename         = "rename"
	ActionChangeLink     = "changeLink"
	ActionChangePortions = "changePortions"
	ActionUpdateBaseInfo = "updateBaseInfo"

	ActionAddIngredient     = "addIngredient"
	ActionRemoveIngredient  = "removeIngredient"
	ActionAddInstruction    = "addInstruction"
	ActionRemoveInstruction = "removeInstruction"
	ActionAddComment        = "addComment"
	ActionRemoveComment     = "removeComment"

	ActionAddMenuItem    = "addMenuItem"
	ActionRemoveMenuItem = "removeMenuItem"

	ActionAddShoppingItem    = "addShoppingItem"
	ActionRemoveShoppingItem = "removeShoppingItem"
	ActionAddItemComment     = "addItemComment"
	ActionRemoveItemComment  = "removeItemComment"
)

// Command is the request envelope. Name is the storage key of the aggregate
// the action targets; the remaining fields are read depending on Action.
type Command struct {
	Action  string `json:"action"`
	Name    string `json:"name,omitempty"`
	NewName string `json:"new_name,omitempty"`
	Prefix  string `json:"prefix,omitempty"`

	Link     *string `json:"link,omitempty"`
	Portions *int    `json:"portions,omitempty"`

	Recipe       *domain.Recipe       `json:"recipe,omitempty"`
	Menu         *domain.Menu         `json:"menu,omitempty"`
	ShoppingList *domain.ShoppingList `json:"shopping_list,omitempty"`

	Ingredient  *domain.Ingredient `json:"ingredient,omitempty"`
	ProductName string             `json:"product_name,omitempty"`
	Instruction string             `json:"instruction,omitempty"`
	Comment     string             `json:"comment,omitempty"`

	MenuItem *domain.MenuItem `json:"menu_item,omitempty"`

	ShoppingItem *domain.ShoppingItem `json:"shopping_item,omitempty"`
	ItemName     string               `json:"item_name,omitempty"`
}

// DecodeCommand strictly decodes a request body. Malformed JSON, unknown
// fields and invalid enum values are ErrValidation; absent optional fields
// are not an error.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if len(bytes.TrimSpace(data)) == 0 {
		return cmd, fmt.Errorf("%w: empty request body", ErrValidation)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		return Command{}, fmt.Errorf("%w: malformed command: %v", ErrValidation, err)
	}
	return cmd, nil
}

// Envelope is the response of every command. Exactly one of SuccessMessage
// and ErrorMessage is set; Entities is always a JSON array.
type Envelope struct {
	Entities       json.RawMessage `json:"entities"`
	SuccessMessage string          `json:"success_message,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	Reason         Reason          `json:"reason,omitempty"`
}

// OK reports whether the command succeeded.
func (e Envelope) OK() bool {
	return e.ErrorMessage == ""
}

// DecodeEntities unpacks the entities of an envelope.
func DecodeEntities[T any](e Envelope) ([]T, error) {
	out := []T{}
	if len(e.Entities) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(e.Entities, &out); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	return out, nil
}

func respond[T any](entities []T, message string, err error) Envelope {
	if err != nil {
		return Failure(err)
	}
	if entities == nil {
		entities = []T{}
	}
	data, mErr := json.Marshal(entities)
	if mErr != nil {
		return Failure(fmt.Errorf("%w: encode response: %v", ErrStorage, mErr))
	}
	return Envelope{Entities: data, SuccessMessage: message}
}

// Failure builds the envelope reporting err.
func Failure(err error) Envelope {
	return Envelope{
		Entities:     json.RawMessage("[]"),
		ErrorMessage: err.Error(),
		Reason:       ReasonOf(err),
	}
}
