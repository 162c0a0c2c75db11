package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mlsechub/modelhub/internal/models"
	"gorm.io/gorm"
)

type gormModelStore struct {
	db *gorm.DB
}

func (s *gormModelStore) List() ([]models.ModelRecord, error) {
	var recs []models.ModelRecord
	if err := s.db.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormModelStore) Get(id uint64) (*models.ModelRecord, error) {
	var rec models.ModelRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *gormModelStore) Create(rec *models.ModelRecord) error {
	if rec.ModelID == "" {
		rec.ModelID = fmt.Sprintf("model_%s", uuid.NewString()[:8])
	}
	if rec.Status == "" {
		rec.Status = models.StatusActive
	}
	return s.db.Create(rec).Error
}

func (s *gormModelStore) Update(id uint64, mutate func(*models.ModelRecord) error) (*models.ModelRecord, error) {
	var rec models.ModelRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := mutate(&rec); err != nil {
			return err
		}
		// Save bumps UpdatedAt, keeping it >= CreatedAt
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *gormModelStore) Delete(id uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.ModelRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		// File blob cascades with the record
		return tx.Delete(&models.ModelFile{}, "model_record_id = ?", id).Error
	})
}

func (s *gormModelStore) IncrementViews(id uint64) error {
	return s.increment("views", id)
}

func (s *gormModelStore) IncrementDownloads(id uint64) error {
	return s.increment("downloads", id)
}

// increment bumps a counter column atomically without touching UpdatedAt.
func (s *gormModelStore) increment(column string, id uint64) error {
	result := s.db.Model(&models.ModelRecord{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
