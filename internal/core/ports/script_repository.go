package ports

import (
	"context"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// ScriptRepository defines persistence operations for scripts.
// Identifiers are assigned by the repository, strictly increasing and never reused.
type ScriptRepository interface {
	CreateScript(ctx context.Context, s domain.NewScript) (*domain.Script, error)
	// GetScript returns domain.ErrScriptNotFound when id is unknown.
	GetScript(ctx context.Context, id int64) (*domain.Script, error)
	// ListScripts returns every script ordered by ascending id.
	ListScripts(ctx context.Context) ([]*domain.Script, error)
	// DeleteScript reports whether a script existed and was removed.
	DeleteScript(ctx context.Context, id int64) (bool, error)
}
