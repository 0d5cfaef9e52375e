package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bidwriter/backend/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// bidRecordRow is the bid_records table
type bidRecordRow struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	Timestamp          time.Time `gorm:"index;not null"`
	ProjectName        string    `gorm:"index;not null"`
	ProjectDescription string    `gorm:"type:text"`
	GeneratedBid       string    `gorm:"type:text"`
	TotalBids          *int
	BudgetRange        *string
	Won                *bool
}

func (bidRecordRow) TableName() string {
	return "bid_records"
}

func rowFromRecord(r *domain.BidRecord) bidRecordRow {
	return bidRecordRow{
		ID:                 r.ID,
		Timestamp:          r.Timestamp,
		ProjectName:        r.ProjectName,
		ProjectDescription: r.ProjectDescription,
		GeneratedBid:       r.GeneratedBid,
		TotalBids:          r.TotalBids,
		BudgetRange:        r.BudgetRange,
		Won:                r.Won,
	}
}

func (row bidRecordRow) record() domain.BidRecord {
	return domain.BidRecord{
		ID:                 row.ID,
		Timestamp:          row.Timestamp,
		ProjectName:        row.ProjectName,
		ProjectDescription: row.ProjectDescription,
		GeneratedBid:       row.GeneratedBid,
		TotalBids:          row.TotalBids,
		BudgetRange:        row.BudgetRange,
		Won:                row.Won,
	}
}

// PostgresStore keeps the bid history in Postgres
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to dsn and migrates the bid_records table
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	log.Println("[HISTORY] Running migrations...")
	if err := db.AutoMigrate(&bidRecordRow{}); err != nil {
		return nil, fmt.Errorf("migrate bid_records: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add inserts a record
func (s *PostgresStore) Add(ctx context.Context, record *domain.BidRecord) error {
	row := rowFromRecord(record)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert bid record: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest records, oldest first
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]domain.BidRecord, error) {
	var rows []bidRecordRow
	query := s.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load recent bids: %w", err)
	}

	records := make([]domain.BidRecord, len(rows))
	for i, row := range rows {
		records[len(rows)-1-i] = row.record()
	}
	return records, nil
}

// All returns every record, oldest first
func (s *PostgresStore) All(ctx context.Context) ([]domain.BidRecord, error) {
	var rows []bidRecordRow
	if err := s.db.WithContext(ctx).Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load bids: %w", err)
	}

	records := make([]domain.BidRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

// UpdateResult marks the most recent pending bid for projectName
func (s *PostgresStore) UpdateResult(ctx context.Context, projectName string, won bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row bidRecordRow
		err := tx.Where("project_name = ? AND won IS NULL", projectName).
			Order("timestamp DESC").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no pending bid for %q", domain.ErrBidNotFound, projectName)
		}
		if err != nil {
			return fmt.Errorf("find pending bid: %w", err)
		}

		if err := tx.Model(&row).Update("won", won).Error; err != nil {
			return fmt.Errorf("update bid result: %w", err)
		}
		return nil
	})
}
