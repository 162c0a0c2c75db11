package store

import (
	"errors"

	"github.com/mlsechub/modelhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormFileStore struct {
	db *gorm.DB
}

func (s *gormFileStore) Get(modelID uint64) (*models.ModelFile, error) {
	var file models.ModelFile
	err := s.db.First(&file, "model_record_id = ?", modelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (s *gormFileStore) Put(file *models.ModelFile) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_record_id"}},
		UpdateAll: true,
	}).Create(file).Error
}

func (s *gormFileStore) Delete(modelID uint64) error {
	return s.db.Delete(&models.ModelFile{}, "model_record_id = ?", modelID).Error
}
