package store

import (
	"errors"

	"github.com/mlsechub/modelhub/internal/models"
	"gorm.io/gorm"
)

type gormDocStore struct {
	db *gorm.DB
}

func (s *gormDocStore) List(category string) ([]models.DocRecord, error) {
	var docs []models.DocRecord
	query := s.db.Order("id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *gormDocStore) Get(id uint64) (*models.DocRecord, error) {
	var doc models.DocRecord
	err := s.db.First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *gormDocStore) Create(doc *models.DocRecord) error {
	return s.db.Create(doc).Error
}

func (s *gormDocStore) IncrementViews(id uint64) error {
	result := s.db.Model(&models.DocRecord{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
