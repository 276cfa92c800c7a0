package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoyaltyRepository interface {
	// Accrue adds one attempt-credit for (author, question, period) as an
	// atomic increment upsert; the first occurrence in a period creates the
	// ledger row. Runs on the grading transaction handle.
	Accrue(tx *gorm.DB, authorUserID, questionID uint, period string, credit float64) error
	FindEntry(authorUserID, questionID uint, period string) (*model.RoyaltyLedgerEntry, error)
	FindAllByAuthorAndPeriod(authorUserID uint, period string) ([]model.RoyaltyLedgerEntry, error)
}

type royaltyRepository struct {
	db *gorm.DB
}

func NewRoyaltyRepository(db *gorm.DB) RoyaltyRepository {
	return &royaltyRepository{db: db}
}

func (r *royaltyRepository) Accrue(tx *gorm.DB, authorUserID, questionID uint, period string, credit float64) error {
	entry := model.RoyaltyLedgerEntry{
		AuthorUserID: authorUserID,
		QuestionID:   questionID,
		Period:       period,
		AttemptCount: 1,
		Amount:       credit,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "author_user_id"}, {Name: "question_id"}, {Name: "period"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempt_count": gorm.Expr("royalty_ledger_entries.attempt_count + 1"),
			"amount":        gorm.Expr("royalty_ledger_entries.amount + ?", credit),
			"updated_at":    gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&entry).Error
}

func (r *royaltyRepository) FindEntry(authorUserID, questionID uint, period string) (*model.RoyaltyLedgerEntry, error) {
	var entry model.RoyaltyLedgerEntry
	err := r.db.Where("author_user_id = ? AND question_id = ? AND period = ?", authorUserID, questionID, period).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *royaltyRepository) FindAllByAuthorAndPeriod(authorUserID uint, period string) ([]model.RoyaltyLedgerEntry, error) {
	var entries []model.RoyaltyLedgerEntry
	err := r.db.Where("author_user_id = ? AND period = ?", authorUserID, period).
		Order("question_id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
