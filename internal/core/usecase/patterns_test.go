package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

type catalogFake struct {
	categories []domain.CategoryInfo
}

func (f *catalogFake) Categories() []domain.CategoryInfo {
	return f.categories
}

func TestCatalogMergesLocalDescriptions(t *testing.T) {
	engine := &engineFake{catalog: &domain.PatternCatalog{
		Patterns: []domain.PatternInfo{
			{Name: "ssn", Category: domain.CategoryPersonalIdentifying, Confidence: 0.98},
		},
		Categories: []domain.CategoryInfo{
			{Category: domain.CategoryPersonalIdentifying},
		},
		DocumentTypes: []string{"general", "police_report"},
	}}
	catalog := &catalogFake{categories: []domain.CategoryInfo{
		{Category: domain.CategoryPersonalIdentifying, Name: "Personal Identifying Information"},
		{Category: domain.CategoryHIPAAData, Name: "HIPAA Data"},
	}}
	uc := NewPatternsUseCase(engine, catalog, nil)

	got, err := uc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(got.Patterns) != 1 || got.Patterns[0].Name != "ssn" {
		t.Fatalf("engine patterns must pass through: %+v", got.Patterns)
	}
	if got.Categories[0].Name != "Personal Identifying Information" {
		t.Fatalf("blank engine description must be filled locally: %+v", got.Categories[0])
	}
	if len(got.Categories) != 2 || got.Categories[1].Category != domain.CategoryHIPAAData {
		t.Fatalf("local-only categories must append: %+v", got.Categories)
	}
}

func TestCatalogFallsBackToLocalOnEngineFailure(t *testing.T) {
	engine := &engineFake{catalogErr: errors.New("engine down")}
	catalog := &catalogFake{categories: []domain.CategoryInfo{
		{Category: domain.CategoryPrivacyInterest, Name: "Privacy Interest"},
	}}
	uc := NewPatternsUseCase(engine, catalog, nil)

	got, err := uc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if len(got.Categories) != 1 || got.Categories[0].Name != "Privacy Interest" {
		t.Fatalf("expected local catalog, got %+v", got)
	}
}
