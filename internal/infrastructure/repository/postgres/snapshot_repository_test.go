package postgres

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &SnapshotRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestLoadReturnsNilWhenNoRowExists(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT state").
		WithArgs("current").
		WillReturnRows(sqlmock.NewRows([]string{"state"}))

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoadDecodesStoredState(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	stored, err := json.Marshal(domain.Snapshot{
		Documents: []domain.Document{{ID: "doc-1", Filename: "report.pdf"}},
		Analyses: map[string]domain.Analysis{
			"an-1": {ID: "an-1", DocumentID: "doc-1"},
		},
		Config: domain.DefaultRedactionConfig(),
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	mock.ExpectQuery("SELECT state").
		WithArgs("current").
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow(stored))

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Documents) != 1 || snap.Documents[0].ID != "doc-1" {
		t.Errorf("documents = %+v", snap.Documents)
	}
	if snap.Analyses["an-1"].DocumentID != "doc-1" {
		t.Errorf("analyses = %+v", snap.Analyses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveUpsertsSingleRow(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO review_snapshots").
		WithArgs("current", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &domain.Snapshot{Config: domain.DefaultRedactionConfig()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
