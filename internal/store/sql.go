package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spigell/cupid-matcher/internal/profile"
)

const currentProfileKey = "current_profile"

// profileRecord stores the profile document as JSON; gender and timestamps
// are copied out for querying.
type profileRecord struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	CupidID   string `gorm:"size:32;not null;uniqueIndex"`
	Gender    string `gorm:"size:16;index"`
	Data      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (profileRecord) TableName() string { return "profiles" }

type settingRecord struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value string `gorm:"size:255"`
}

func (settingRecord) TableName() string { return "settings" }

// SQL is a gorm-backed store for sqlite or postgres.
type SQL struct {
	db *gorm.DB
}

// OpenSQL connects with the named driver and migrates the schema.
func OpenSQL(driver, dsn string) (*SQL, error) {
	var dialector gorm.Dialector
	switch driver {
	case TypeSQLite:
		dialector = sqlite.Open(dsn)
	case TypePostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return NewSQL(db)
}

// NewSQL migrates the schema on an open connection.
func NewSQL(db *gorm.DB) (*SQL, error) {
	if err := db.AutoMigrate(&profileRecord{}, &settingRecord{}); err != nil {
		return nil, fmt.Errorf("automigrate profile store: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	var rec profileRecord
	err := s.db.WithContext(ctx).Where("cupid_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sql get profile %s: %w", id, err)
	}
	return decode([]byte(rec.Data))
}

func (s *SQL) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	var recs []profileRecord
	if err := s.db.WithContext(ctx).Order("seq").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("sql list profiles: %w", err)
	}

	out := make([]*profile.Profile, 0, len(recs))
	for _, rec := range recs {
		p, err := decode([]byte(rec.Data))
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", rec.CupidID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SQL) PutProfile(ctx context.Context, p *profile.Profile) error {
	if err := validateForPut(p); err != nil {
		return err
	}
	data, err := encode(p)
	if err != nil {
		return err
	}

	rec := profileRecord{CupidID: p.ID, Data: string(data)}
	if p.PersonalInfo != nil {
		rec.Gender = string(p.PersonalInfo.Gender)
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cupid_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gender", "data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("sql put profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQL) GetCurrentProfile(ctx context.Context) (*profile.Profile, error) {
	var setting settingRecord
	err := s.db.WithContext(ctx).Where("name = ?", currentProfileKey).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sql get current profile: %w", err)
	}
	return s.GetProfile(ctx, setting.Value)
}

func (s *SQL) SetCurrentProfile(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&profileRecord{}).Where("cupid_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("sql check profile %s: %w", id, err)
		}
		if count == 0 {
			return ErrNotFound
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&settingRecord{Name: currentProfileKey, Value: id}).Error
		if err != nil {
			return fmt.Errorf("sql set current profile: %w", err)
		}
		return nil
	})
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
