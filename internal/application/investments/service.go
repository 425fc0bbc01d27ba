package investments

import (
	"context"
	"errors"

	"masonry-backend/internal/models"

	"gorm.io/gorm"
)

// ErrInvestmentNotFound is returned when an operation references a missing
// investment.
var ErrInvestmentNotFound = errors.New("investment not found")

// Service encapsulates investment (scope) operations.
type Service struct {
	DB *gorm.DB
}

// Create registers a new investment. Names are unique; a duplicate surfaces
// as a persistence error.
func (s *Service) Create(ctx context.Context, name string) (*models.Investment, error) {
	inv := &models.Investment{Name: name}
	if err := s.DB.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// Get reads one investment.
func (s *Service) Get(ctx context.Context, id uint) (*models.Investment, error) {
	var inv models.Investment
	if err := s.DB.WithContext(ctx).First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// List returns all investments by name.
func (s *Service) List(ctx context.Context) ([]models.Investment, error) {
	var invs []models.Investment
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

// Rename changes an investment's name.
func (s *Service) Rename(ctx context.Context, id uint, name string) (*models.Investment, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Name = name
	if err := s.DB.WithContext(ctx).Save(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an investment with its walls and their children. Deleting
// a missing investment is a no-op.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallIDs []uint
		if err := tx.Model(&models.Wall{}).Where("investment_id = ?", id).
			Pluck("id", &wallIDs).Error; err != nil {
			return err
		}
		if len(wallIDs) > 0 {
			if err := tx.Where("wall_id IN ?", wallIDs).Delete(&models.Hole{}).Error; err != nil {
				return err
			}
			if err := tx.Where("wall_id IN ?", wallIDs).Delete(&models.Processing{}).Error; err != nil {
				return err
			}
			if err := tx.Where("investment_id = ?", id).Delete(&models.Wall{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Investment{}, id).Error
	})
}
