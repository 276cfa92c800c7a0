package repository_test

import (
	"errors"
	"testing"

	"github.com/lshigami/Margays/internal/repository"
	"gorm.io/gorm"
)

func TestAccrueIncrementsExistingEntry(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewRoyaltyRepository(db)

	for i := 0; i < 3; i++ {
		if err := repo.Accrue(db, 42, 5, "2025-03", 50.0); err != nil {
			t.Fatalf("accrue %d failed: %v", i, err)
		}
	}

	entry, err := repo.FindEntry(42, 5, "2025-03")
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.AttemptCount != 3 {
		t.Errorf("expected attempt_count 3, got %d", entry.AttemptCount)
	}
	if entry.Amount != 150.0 {
		t.Errorf("expected amount 150.0, got %v", entry.Amount)
	}
}

func TestAccrueSeparatesPeriods(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewRoyaltyRepository(db)

	if err := repo.Accrue(db, 42, 5, "2025-03", 50.0); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	if err := repo.Accrue(db, 42, 5, "2025-04", 50.0); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	march, err := repo.FindEntry(42, 5, "2025-03")
	if err != nil {
		t.Fatalf("load march entry: %v", err)
	}
	april, err := repo.FindEntry(42, 5, "2025-04")
	if err != nil {
		t.Fatalf("load april entry: %v", err)
	}
	if march.AttemptCount != 1 || april.AttemptCount != 1 {
		t.Errorf("expected separate rows per period, got %d and %d", march.AttemptCount, april.AttemptCount)
	}
}

func TestAccrueSeparatesAuthorsAndQuestions(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewRoyaltyRepository(db)

	if err := repo.Accrue(db, 42, 5, "2025-03", 50.0); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	if err := repo.Accrue(db, 42, 6, "2025-03", 50.0); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	if err := repo.Accrue(db, 43, 7, "2025-03", 50.0); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	entries, err := repo.FindAllByAuthorAndPeriod(42, "2025-03")
	if err != nil {
		t.Fatalf("load entries: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries for author 42, got %d", len(entries))
	}

	if _, err := repo.FindEntry(43, 5, "2025-03"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected no entry for author 43 question 5, got %v", err)
	}
}
