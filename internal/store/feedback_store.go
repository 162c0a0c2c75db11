package store

import (
	"github.com/mlsechub/modelhub/internal/models"
	"gorm.io/gorm"
)

type gormFeedbackStore struct {
	db *gorm.DB
}

func (s *gormFeedbackStore) Append(entry *models.FeedbackEntry) error {
	return s.db.Create(entry).Error
}

func (s *gormFeedbackStore) List() ([]models.FeedbackEntry, error) {
	var entries []models.FeedbackEntry
	if err := s.db.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *gormFeedbackStore) Stats() (FeedbackStats, error) {
	var stats FeedbackStats
	if err := s.db.Model(&models.FeedbackEntry{}).Count(&stats.Count).Error; err != nil {
		return stats, err
	}
	if stats.Count == 0 {
		return stats, nil
	}
	err := s.db.Model(&models.FeedbackEntry{}).
		Select("AVG(rating)").
		Scan(&stats.AverageRating).Error
	return stats, err
}
