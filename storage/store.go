// Package storage keeps an archive of completed visits in a local SQLite
// database. The archive is append-mostly: a visit is written when the
// session is exported, and read back by the `visits` command.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leitfaden/domain"
	"leitfaden/export"
	"leitfaden/logging"
	"leitfaden/pricing"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger wraps the leitfaden logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL queries - only in debug mode
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("LEITFADEN_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// Visit is one archived questionnaire session, flattened for listing.
// The full answer set travels in Payload (the structured JSON export).
type Visit struct {
	SessionID      string    `gorm:"primaryKey;column:session_id"`
	VisitedAt      time.Time `gorm:"column:visited_at"`
	ArchivedAt     time.Time `gorm:"column:archived_at"`
	Employee       string    `gorm:"column:employee"`
	CustomerName   string    `gorm:"column:customer_name"`
	CustomerNumber string    `gorm:"column:customer_number"`
	BoilerType     string    `gorm:"column:boiler_type"`
	Zone           string    `gorm:"column:zone"`
	OfferInterest  string    `gorm:"column:offer_interest"`
	BundleTotal    string    `gorm:"column:bundle_total"`
	FollowUpNeeded bool      `gorm:"column:follow_up_needed"`
	FollowUpReason string    `gorm:"column:follow_up_reason"`
	Payload        string    `gorm:"column:payload"`
}

// Store provides access to the visit archive
type Store struct {
	db *gorm.DB
}

// NewStore opens (and migrates) the archive database with WAL mode enabled
func NewStore(dbPath string) (*Store, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode: SSH-served sessions share the archive with the local TUI
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&Visit{}); err != nil {
		return nil, fmt.Errorf("failed to migrate visit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// ArchiveVisit stores the session in the archive. Re-exporting the same
// session replaces its archived row.
func (s *Store) ArchiveVisit(ctx context.Context, a *domain.Answers) error {
	payload, err := export.JSON(a)
	if err != nil {
		return err
	}

	prices := pricing.Compute(a.Boiler)
	bundleTotal := ""
	if prices.BundleTotal != nil {
		bundleTotal = prices.BundleTotal.StringFixed(2)
	}

	visit := Visit{
		SessionID:      a.SessionID,
		VisitedAt:      a.CreatedAt,
		ArchivedAt:     time.Now().UTC(),
		Employee:       a.Employee,
		CustomerName:   a.Customer.Name,
		CustomerNumber: a.Customer.Number,
		BoilerType:     a.Boiler.Type.Label(),
		Zone:           a.Boiler.Zone.Label(),
		OfferInterest:  string(a.Offer.Interest),
		BundleTotal:    bundleTotal,
		FollowUpNeeded: a.FollowUp.Needed,
		FollowUpReason: a.FollowUp.Reason,
		Payload:        string(payload),
	}

	err = s.db.WithContext(ctx).Create(&visit).Error
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		// Session already archived: replace the row
		logging.Logger.Debug("Visit already archived, replacing", "session_id", a.SessionID)
		return s.db.WithContext(ctx).Save(&visit).Error
	}
	if err != nil {
		return fmt.Errorf("failed to archive visit %s: %w", a.SessionID, err)
	}
	return nil
}

// ListVisits returns all archived visits, newest first.
func (s *Store) ListVisits(ctx context.Context) ([]Visit, error) {
	var visits []Visit
	err := s.db.WithContext(ctx).Order("archived_at DESC").Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
