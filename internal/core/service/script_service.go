package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unityscripts/script-library/internal/api/metrics"
	"github.com/unityscripts/script-library/internal/core/domain"
	"github.com/unityscripts/script-library/internal/core/ports"
)

type ScriptService struct {
	repo   ports.ScriptRepository
	logger zerolog.Logger
}

func NewScriptService(repo ports.ScriptRepository, logger zerolog.Logger) *ScriptService {
	return &ScriptService{repo: repo, logger: logger}
}

// ListScripts returns the whole collection; filtering happens on the client.
func (s *ScriptService) ListScripts(ctx context.Context) ([]*domain.Script, error) {
	scripts, err := s.repo.ListScripts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list scripts")
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	metrics.ScriptsStored.Set(float64(len(scripts)))
	return scripts, nil
}

func (s *ScriptService) GetScript(ctx context.Context, id int64) (*domain.Script, error) {
	script, err := s.repo.GetScript(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get script %d: %w", id, err)
	}
	return script, nil
}

// CreateScript stores a script that already passed payload validation.
func (s *ScriptService) CreateScript(ctx context.Context, input ports.CreateScriptInput) (*domain.Script, error) {
	script, err := s.repo.CreateScript(ctx, domain.NewScript{
		Name:        input.Name,
		Description: input.Description,
		Code:        input.Code,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create script")
		return nil, fmt.Errorf("create script: %w", err)
	}

	metrics.ScriptsCreatedTotal.Inc()
	metrics.ScriptsStored.Inc()
	s.logger.Info().Int64("script_id", script.ID).Str("name", script.Name).Msg("script created")
	return script, nil
}

// DeleteScript returns domain.ErrScriptNotFound when nothing was removed.
func (s *ScriptService) DeleteScript(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteScript(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("script_id", id).Msg("failed to delete script")
		return fmt.Errorf("delete script %d: %w", id, err)
	}
	if !deleted {
		metrics.ScriptsDeletedTotal.WithLabelValues("not_found").Inc()
		return fmt.Errorf("delete script %d: %w", id, domain.ErrScriptNotFound)
	}

	metrics.ScriptsDeletedTotal.WithLabelValues("deleted").Inc()
	metrics.ScriptsStored.Dec()
	s.logger.Info().Int64("script_id", id).Msg("script deleted")
	return nil
}
