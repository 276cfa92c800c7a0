package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardRepository interface {
	// UpsertBestScore inserts or raises the (package, user) entry in a single
	// atomic statement. The conflict guard keeps best_score monotonically
	// non-decreasing regardless of commit order; a read-then-write here would
	// lose updates under concurrent completions.
	UpsertBestScore(tx *gorm.DB, entry *model.LeaderboardEntry) error
	FindByPackage(packageID uint) ([]model.LeaderboardEntry, error)
	FindByPackageAndUser(packageID, userID uint) (*model.LeaderboardEntry, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) UpsertBestScore(tx *gorm.DB, entry *model.LeaderboardEntry) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "package_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"best_score":      gorm.Expr("excluded.best_score"),
			"best_attempt_id": gorm.Expr("excluded.best_attempt_id"),
			"updated_at":      gorm.Expr("excluded.updated_at"),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("excluded.best_score > leaderboard_entries.best_score"),
		}},
	}).Create(entry).Error
}

func (r *leaderboardRepository) FindByPackage(packageID uint) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	if err := r.db.Where("package_id = ?", packageID).Order("best_score DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *leaderboardRepository) FindByPackageAndUser(packageID, userID uint) (*model.LeaderboardEntry, error) {
	var entry model.LeaderboardEntry
	if err := r.db.Where("package_id = ? AND user_id = ?", packageID, userID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
