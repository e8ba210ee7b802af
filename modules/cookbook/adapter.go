package cookbook

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	domain "github.com/nerggnet/WebBackend/domain/cookbook"
)

// CookbookPort is how other modules run cookbook commands.
type CookbookPort interface {
	Execute(ctx context.Context, collection domain.Collection, cmd Command) (Envelope, error)
}

// CookbookAdapter implements CookbookPort over the service container.
type CookbookAdapter struct {
	container mono.ServiceContainer
}

var _ CookbookPort = (*CookbookAdapter)(nil)

// NewCookbookAdapter creates a new CookbookAdapter.
func NewCookbookAdapter(container mono.ServiceContainer) *CookbookAdapter {
	return &CookbookAdapter{container: container}
}

// Execute sends cmd to the service of collection. The returned error covers
// transport failures only; command outcomes are in the envelope.
func (a *CookbookAdapter) Execute(ctx context.Context, collection domain.Collection, cmd Command) (Envelope, error) {
	var env Envelope
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		string(collection),
		json.Marshal,
		json.Unmarshal,
		&cmd,
		&env,
	); err != nil {
		return Envelope{}, fmt.Errorf("%s request failed: %w", collection, err)
	}
	return env, nil
}
