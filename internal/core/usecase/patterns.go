package usecase

import (
	"context"
	"log/slog"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
)

// PatternsUseCase serves the detection pattern inventory: the engine's
// catalog enriched with locally defined category descriptions. When the
// engine is unreachable the local catalog alone is returned, so the review
// surface keeps its category labels through engine outages.
type PatternsUseCase struct {
	engine  ports.DetectionEngine
	catalog ports.CategoryCatalog
	logger  *slog.Logger
}

func NewPatternsUseCase(engine ports.DetectionEngine, catalog ports.CategoryCatalog, logger *slog.Logger) *PatternsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternsUseCase{
		engine:  engine,
		catalog: catalog,
		logger:  logger,
	}
}

// Catalog returns the merged pattern catalog.
func (uc *PatternsUseCase) Catalog(ctx context.Context) (*domain.PatternCatalog, error) {
	var local []domain.CategoryInfo
	if uc.catalog != nil {
		local = uc.catalog.Categories()
	}

	remote, err := uc.engine.ListPatterns(ctx)
	if err != nil {
		uc.logger.Warn("pattern_catalog_fallback", "error", err)
		return &domain.PatternCatalog{Categories: local}, nil
	}

	remote.Categories = mergeCategories(remote.Categories, local)
	return remote, nil
}

// mergeCategories keeps the engine's ordering and fills descriptions the
// engine left blank from the local catalog; local-only categories append.
func mergeCategories(remote, local []domain.CategoryInfo) []domain.CategoryInfo {
	byCategory := make(map[domain.Category]domain.CategoryInfo, len(local))
	for _, info := range local {
		byCategory[info.Category] = info
	}

	seen := make(map[domain.Category]struct{}, len(remote))
	out := make([]domain.CategoryInfo, 0, len(remote)+len(local))
	for _, info := range remote {
		if known, ok := byCategory[info.Category]; ok {
			if info.Name == "" {
				info.Name = known.Name
			}
			if info.Description == "" {
				info.Description = known.Description
			}
			if len(info.Examples) == 0 {
				info.Examples = known.Examples
			}
		}
		seen[info.Category] = struct{}{}
		out = append(out, info)
	}
	for _, info := range local {
		if _, ok := seen[info.Category]; !ok {
			out = append(out, info)
		}
	}
	return out
}
