package ports

import (
	"context"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// CreateScriptInput carries the fields of a new script after transport validation.
type CreateScriptInput struct {
	Name        string
	Description string
	Code        string
}

// ScriptService defines use-case operations for scripts.
type ScriptService interface {
	ListScripts(ctx context.Context) ([]*domain.Script, error)
	GetScript(ctx context.Context, id int64) (*domain.Script, error)
	CreateScript(ctx context.Context, input CreateScriptInput) (*domain.Script, error)
	DeleteScript(ctx context.Context, id int64) error
}
