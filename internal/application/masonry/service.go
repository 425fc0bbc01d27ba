package masonry

import (
	"context"
	"errors"

	"masonry-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service encapsulates wall, hole and processing operations. Every mutation
// recomputes the owning wall's derived columns before returning, so callers
// never observe stale areas.
type Service struct {
	DB *gorm.DB
}

// WallInput carries the stored attributes of a new wall.
type WallInput struct {
	LocalID      int
	Sector       string
	Level        string
	Localization string
	BrickType    string
	WallWidth    int
	WallLength   decimal.Decimal
	FloorOrd     decimal.Decimal
	CeilingOrd   decimal.Decimal
}

// WallUpdate is a partial update; nil fields are left untouched.
type WallUpdate struct {
	LocalID      *int
	Sector       *string
	Level        *string
	Localization *string
	BrickType    *string
	WallWidth    *int
	WallLength   *decimal.Decimal
	FloorOrd     *decimal.Decimal
	CeilingOrd   *decimal.Decimal
}

// HoleInput carries a new hole. Width and height may be nil when only the
// amount is known so far.
type HoleInput struct {
	Width  *decimal.Decimal
	Height *decimal.Decimal
	Amount int
}

// HoleUpdate is a partial update; nil fields are left untouched.
type HoleUpdate struct {
	Width  *decimal.Decimal
	Height *decimal.Decimal
	Amount *int
}

// ProcessingInput carries a new processing entry.
type ProcessingInput struct {
	Year  int
	Month string
	Done  decimal.Decimal
}

// ProcessingUpdate is a partial update; nil fields are left untouched.
type ProcessingUpdate struct {
	Year  *int
	Month *string
	Done  *decimal.Decimal
}

// WallFilters narrows ListWalls; zero values mean no filter.
type WallFilters struct {
	Sector       string
	Level        string
	Localization string
	BrickType    string
	WallWidth    *int
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// loadWall reads a wall with its children in id order (the order the ledger
// folds in).
func loadWall(tx *gorm.DB, wallID uint) (*models.Wall, error) {
	var wall models.Wall
	err := tx.Preload("Holes", byID).Preload("Processing", byID).First(&wall, wallID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWallNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wall, nil
}

// saveDerived writes only the cached derived columns.
func saveDerived(tx *gorm.DB, w *models.Wall) error {
	return tx.Model(&models.Wall{}).Where("id = ?", w.ID).Updates(map[string]interface{}{
		"wall_height":         w.WallHeight,
		"gross_wall_area":     w.GrossWallArea,
		"wall_area_to_survey": w.WallAreaToSurvey,
		"wall_area_to_sale":   w.WallAreaToSale,
		"left_to_sale":        w.LeftToSale,
	}).Error
}

// recalcWall reloads a wall with children and refreshes its derived columns.
func recalcWall(tx *gorm.DB, wallID uint) error {
	wall, err := loadWall(tx, wallID)
	if err != nil {
		return err
	}
	wall.Recalculate()
	return saveDerived(tx, wall)
}

// CreateWall creates a wall within an investment scope.
func (s *Service) CreateWall(ctx context.Context, investmentID uint, in WallInput) (*models.Wall, error) {
	db := s.DB.WithContext(ctx)
	var inv models.Investment
	if err := db.First(&inv, investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}

	wall := &models.Wall{
		InvestmentID: investmentID,
		LocalID:      in.LocalID,
		Sector:       in.Sector,
		Level:        in.Level,
		Localization: in.Localization,
		BrickType:    in.BrickType,
		WallWidth:    in.WallWidth,
		WallLength:   in.WallLength,
		FloorOrd:     in.FloorOrd,
		CeilingOrd:   in.CeilingOrd,
	}
	wall.Recalculate()
	if err := db.Create(wall).Error; err != nil {
		return nil, err
	}
	return wall, nil
}

// EditWall applies a partial update and recomputes the derived columns.
func (s *Service) EditWall(ctx context.Context, wallID uint, upd WallUpdate) (*models.Wall, error) {
	var wall *models.Wall
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wall, err = loadWall(tx, wallID)
		if err != nil {
			return err
		}
		if upd.LocalID != nil {
			wall.LocalID = *upd.LocalID
		}
		if upd.Sector != nil {
			wall.Sector = *upd.Sector
		}
		if upd.Level != nil {
			wall.Level = *upd.Level
		}
		if upd.Localization != nil {
			wall.Localization = *upd.Localization
		}
		if upd.BrickType != nil {
			wall.BrickType = *upd.BrickType
		}
		if upd.WallWidth != nil {
			wall.WallWidth = *upd.WallWidth
		}
		if upd.WallLength != nil {
			wall.WallLength = *upd.WallLength
		}
		if upd.FloorOrd != nil {
			wall.FloorOrd = *upd.FloorOrd
		}
		if upd.CeilingOrd != nil {
			wall.CeilingOrd = *upd.CeilingOrd
		}
		wall.Recalculate()
		return tx.Omit(clause.Associations).Save(wall).Error
	})
	if err != nil {
		return nil, err
	}
	return wall, nil
}

// DeleteWall removes a wall and its holes and processing entries. Deleting a
// wall that does not exist is a no-op.
func (s *Service) DeleteWall(ctx context.Context, wallID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wall_id = ?", wallID).Delete(&models.Hole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wall_id = ?", wallID).Delete(&models.Processing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Wall{}, wallID).Error
	})
}

// AddHole appends a hole to a wall.
func (s *Service) AddHole(ctx context.Context, wallID uint, in HoleInput) (*models.Hole, error) {
	if in.Amount <= 0 {
		in.Amount = 1
	}
	var hole models.Hole
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wall, err := loadWall(tx, wallID)
		if err != nil {
			return err
		}
		hole = models.Hole{WallID: wallID, Width: in.Width, Height: in.Height, Amount: in.Amount}
		if err := tx.Create(&hole).Error; err != nil {
			return err
		}
		wall.Holes = append(wall.Holes, hole)
		wall.Recalculate()
		return saveDerived(tx, wall)
	})
	if err != nil {
		return nil, err
	}
	return &hole, nil
}

// EditHole applies a partial update to a hole and recomputes its wall.
func (s *Service) EditHole(ctx context.Context, holeID uint, upd HoleUpdate) (*models.Hole, error) {
	var hole models.Hole
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&hole, holeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoleNotFound
			}
			return err
		}
		if upd.Width != nil {
			hole.Width = upd.Width
		}
		if upd.Height != nil {
			hole.Height = upd.Height
		}
		if upd.Amount != nil {
			hole.Amount = *upd.Amount
		}
		if err := tx.Save(&hole).Error; err != nil {
			return err
		}
		return recalcWall(tx, hole.WallID)
	})
	if err != nil {
		return nil, err
	}
	return &hole, nil
}

// DeleteHole removes a hole and recomputes its wall. Deleting a hole that
// does not exist is a no-op.
func (s *Service) DeleteHole(ctx context.Context, holeID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hole models.Hole
		if err := tx.First(&hole, holeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&hole).Error; err != nil {
			return err
		}
		return recalcWall(tx, hole.WallID)
	})
}

// AddProcessing appends a processing entry. A requested done fraction above
// the wall's current left_to_sale is silently reduced to it; a negative one
// is rejected.
func (s *Service) AddProcessing(ctx context.Context, wallID uint, in ProcessingInput) (*models.Processing, error) {
	if in.Done.IsNegative() {
		return nil, models.ErrDoneOutOfRange
	}
	var proc *models.Processing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wall, err := loadWall(tx, wallID)
		if err != nil {
			return err
		}
		done := in.Done
		if done.GreaterThan(wall.LeftToSale) {
			done = wall.LeftToSale
		}
		proc, err = models.NewProcessing(wallID, in.Year, in.Month, done)
		if err != nil {
			return err
		}
		if err := tx.Create(proc).Error; err != nil {
			return err
		}
		wall.Processing = append(wall.Processing, *proc)
		wall.Recalculate()
		return saveDerived(tx, wall)
	})
	if err != nil {
		return nil, err
	}
	return proc, nil
}

// EditProcessing applies a partial update to an entry. The done headroom is
// the wall's left_to_sale with the entry's own prior contribution credited
// back; a larger requested value is clamped to it.
func (s *Service) EditProcessing(ctx context.Context, procID uint, upd ProcessingUpdate) (*models.Processing, error) {
	var proc models.Processing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proc, procID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProcessingNotFound
			}
			return err
		}
		wall, err := loadWall(tx, proc.WallID)
		if err != nil {
			return err
		}
		if upd.Year != nil {
			proc.Year = *upd.Year
		}
		if upd.Month != nil {
			proc.Month = *upd.Month
		}
		if upd.Done != nil {
			done := *upd.Done
			headroom := wall.LeftToSale.Add(proc.Done)
			if done.GreaterThan(headroom) {
				done = headroom
			}
			if err := proc.SetDone(done); err != nil {
				return err
			}
		}
		if err := tx.Save(&proc).Error; err != nil {
			return err
		}
		for i := range wall.Processing {
			if wall.Processing[i].ID == proc.ID {
				wall.Processing[i] = proc
			}
		}
		wall.Recalculate()
		return saveDerived(tx, wall)
	})
	if err != nil {
		return nil, err
	}
	return &proc, nil
}

// DeleteProcessing removes an entry and recomputes its wall. Deleting an
// entry that does not exist is a no-op.
func (s *Service) DeleteProcessing(ctx context.Context, procID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proc models.Processing
		if err := tx.First(&proc, procID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&proc).Error; err != nil {
			return err
		}
		return recalcWall(tx, proc.WallID)
	})
}

// GetWall reads a wall with its children in id order.
func (s *Service) GetWall(ctx context.Context, wallID uint) (*models.Wall, error) {
	return loadWall(s.DB.WithContext(ctx), wallID)
}

// AreaFields bundles the derived quantities of one wall.
type AreaFields struct {
	WallHeight       decimal.Decimal `json:"wall_height"`
	GrossWallArea    decimal.Decimal `json:"gross_wall_area"`
	WallAreaToSurvey decimal.Decimal `json:"wall_area_to_survey"`
	WallAreaToSale   decimal.Decimal `json:"wall_area_to_sale"`
	LeftToSale       decimal.Decimal `json:"left_to_sale"`
}

// GetWallAreaFields returns the derived quantities of one wall.
func (s *Service) GetWallAreaFields(ctx context.Context, wallID uint) (*AreaFields, error) {
	wall, err := s.GetWall(ctx, wallID)
	if err != nil {
		return nil, err
	}
	return &AreaFields{
		WallHeight:       wall.WallHeight,
		GrossWallArea:    wall.GrossWallArea,
		WallAreaToSurvey: wall.WallAreaToSurvey,
		WallAreaToSale:   wall.WallAreaToSale,
		LeftToSale:       wall.LeftToSale,
	}, nil
}

// GetLeftToSale returns the fraction of a wall's sellable area not yet
// accounted for.
func (s *Service) GetLeftToSale(ctx context.Context, wallID uint) (decimal.Decimal, error) {
	wall, err := s.GetWall(ctx, wallID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return wall.LeftToSale, nil
}

// ListWalls returns an investment's walls, filtered and ordered by local id.
func (s *Service) ListWalls(ctx context.Context, investmentID uint, f WallFilters) ([]models.Wall, error) {
	q := s.DB.WithContext(ctx).Where("investment_id = ?", investmentID)
	if f.Sector != "" {
		q = q.Where("sector = ?", f.Sector)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.Localization != "" {
		q = q.Where("localization = ?", f.Localization)
	}
	if f.BrickType != "" {
		q = q.Where("brick_type = ?", f.BrickType)
	}
	if f.WallWidth != nil {
		q = q.Where("wall_width = ?", *f.WallWidth)
	}
	var walls []models.Wall
	if err := q.Order("local_id ASC").Find(&walls).Error; err != nil {
		return nil, err
	}
	return walls, nil
}

// categoryColumns are the wall columns exposed as list filters.
var categoryColumns = map[string]bool{
	"sector":       true,
	"level":        true,
	"localization": true,
	"brick_type":   true,
	"wall_width":   true,
}

// Categories returns the distinct values of a filterable wall column within
// an investment.
func (s *Service) Categories(ctx context.Context, investmentID uint, column string) ([]string, error) {
	if !categoryColumns[column] {
		return nil, domainError("category", "is not a filterable column")
	}
	var values []string
	err := s.DB.WithContext(ctx).Model(&models.Wall{}).
		Where("investment_id = ?", investmentID).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// TotalAreas aggregates derived areas over a wall list, rounded to two
// places at the display boundary.
type TotalAreas struct {
	GrossWallArea    decimal.Decimal `json:"gross_wall_area"`
	WallAreaToSurvey decimal.Decimal `json:"wall_area_to_survey"`
	WallAreaToSale   decimal.Decimal `json:"wall_area_to_sale"`
	AreaLeftToSale   decimal.Decimal `json:"area_left_to_sale"`
}

// SumAreas folds a wall list into totals. AreaLeftToSale weights each wall's
// sale area by its unsold fraction.
func SumAreas(walls []models.Wall) TotalAreas {
	var gross, survey, sale, left decimal.Decimal
	for i := range walls {
		w := &walls[i]
		gross = gross.Add(w.GrossWallArea)
		survey = survey.Add(w.WallAreaToSurvey)
		sale = sale.Add(w.WallAreaToSale)
		left = left.Add(w.WallAreaToSale.Mul(w.LeftToSale))
	}
	return TotalAreas{
		GrossWallArea:    gross.Round(2),
		WallAreaToSurvey: survey.Round(2),
		WallAreaToSale:   sale.Round(2),
		AreaLeftToSale:   left.Round(2),
	}
}
