package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"insuria/pkg/domain"
)

// GormStore implements RecordStore using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB, runs auto-migrations, and seeds the vault when
// the documents table is empty.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&ClaimModel{}, &DocumentModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	s := &GormStore{db: db}
	if err := s.seedDocuments(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GormStore) seedDocuments() error {
	var count int64
	if err := s.db.Model(&DocumentModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReplaceDocuments(SeedDocuments())
}

// ListClaims returns the ledger ordered by position (most recent first).
func (s *GormStore) ListClaims() ([]domain.Claim, error) {
	var models []ClaimModel
	if err := s.db.Order("position asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	claims := make([]domain.Claim, 0, len(models))
	for _, m := range models {
		claim, err := claimFromModel(m)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// ReplaceClaims rewrites the whole ledger in one transaction.
func (s *GormStore) ReplaceClaims(claims []domain.Claim) error {
	models := make([]ClaimModel, 0, len(claims))
	for i, claim := range claims {
		m, err := claimToModel(claim, i)
		if err != nil {
			return err
		}
		models = append(models, m)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ClaimModel{}).Error; err != nil {
			return fmt.Errorf("clear claims: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("write claims: %w", err)
		}
		return nil
	})
}

// ListDocuments returns the vault ordered by position (most recent first).
func (s *GormStore) ListDocuments() ([]domain.Document, error) {
	var models []DocumentModel
	if err := s.db.Order("position asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	documents := make([]domain.Document, 0, len(models))
	for _, m := range models {
		documents = append(documents, domain.Document{
			ID:     m.ID,
			Name:   m.Name,
			Type:   m.Type,
			Date:   m.Date,
			Status: domain.DocumentStatus(m.Status),
		})
	}
	return documents, nil
}

// ReplaceDocuments rewrites the whole vault in one transaction.
func (s *GormStore) ReplaceDocuments(documents []domain.Document) error {
	models := make([]DocumentModel, 0, len(documents))
	for i, doc := range documents {
		models = append(models, DocumentModel{
			ID:       doc.ID,
			Position: i,
			Name:     doc.Name,
			Type:     doc.Type,
			Date:     doc.Date,
			Status:   string(doc.Status),
		})
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&DocumentModel{}).Error; err != nil {
			return fmt.Errorf("clear documents: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("write documents: %w", err)
		}
		return nil
	})
}

func claimToModel(claim domain.Claim, position int) (ClaimModel, error) {
	parts, err := json.Marshal(claim.Parts)
	if err != nil {
		return ClaimModel{}, fmt.Errorf("encode claim parts: %w", err)
	}
	return ClaimModel{
		ID:          claim.ID,
		Position:    position,
		ClaimNumber: claim.ClaimNumber,
		Date:        claim.Date,
		Status:      string(claim.Status),
		Vehicle:     claim.Vehicle,
		Incident:    claim.Incident,
		Estimate:    claim.Estimate,
		Parts:       datatypes.JSON(parts),
	}, nil
}

func claimFromModel(m ClaimModel) (domain.Claim, error) {
	var parts []domain.PartCost
	if len(m.Parts) > 0 {
		if err := json.Unmarshal(m.Parts, &parts); err != nil {
			return domain.Claim{}, fmt.Errorf("decode claim parts: %w", err)
		}
	}
	return domain.Claim{
		ID:          m.ID,
		ClaimNumber: m.ClaimNumber,
		Date:        m.Date,
		Status:      domain.ClaimStatus(m.Status),
		Vehicle:     m.Vehicle,
		Incident:    m.Incident,
		Estimate:    m.Estimate,
		Parts:       parts,
	}, nil
}
