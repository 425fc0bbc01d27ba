package masonry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"masonry-backend/internal/infrastructure/csvfile"
	"masonry-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Import kinds recorded on ImportEvent rows.
const (
	KindWalls      = "walls"
	KindHoles      = "holes"
	KindProcessing = "processing"
)

// formatKeys renders row keys the way the summary messages expect:
// "[8, 9, 10]".
func formatKeys(keys []int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(k)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ImportWalls reads a semicolon-separated walls file and upserts each row
// into the investment by its local_id. Rows whose key does not coerce to an
// integer are skipped silently; rows failing validation or persistence are
// recorded and do not disturb their siblings.
func (s *Service) ImportWalls(ctx context.Context, investmentID uint, path string) ([]string, error) {
	rows, err := csvfile.Read(path)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	uploaded := 0
	var failures []int
	for _, row := range rows {
		localID, ok := coerceInt(row["local_id"])
		if !ok {
			continue
		}
		in, vErr := validateWallRow(row)
		if vErr != nil {
			failures = append(failures, localID)
			continue
		}
		in.LocalID = localID

		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.Wall
			err := tx.Select("id").
				Where("investment_id = ? AND local_id = ?", investmentID, localID).
				First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				wall := models.Wall{
					InvestmentID: investmentID,
					LocalID:      localID,
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
				return tx.Create(&wall).Error
			}
			if err != nil {
				return err
			}
			wall, err := loadWall(tx, existing.ID)
			if err != nil {
				return err
			}
			wall.Sector = in.Sector
			wall.Level = in.Level
			wall.Localization = in.Localization
			wall.BrickType = in.BrickType
			wall.WallWidth = in.WallWidth
			wall.WallLength = in.WallLength
			wall.FloorOrd = in.FloorOrd
			wall.CeilingOrd = in.CeilingOrd
			wall.Recalculate()
			return tx.Omit("Holes", "Processing").Save(wall).Error
		})
		if err != nil {
			failures = append(failures, localID)
			continue
		}
		uploaded++
	}

	messages := []string{fmt.Sprintf("Uploaded %d items.", uploaded)}
	if len(failures) > 0 {
		messages = append(messages, fmt.Sprintf(
			"Items: %s not added because they has the wrong format.", formatKeys(failures)))
	}
	s.recordImportEvent(ctx, investmentID, KindWalls, uploaded, messages)
	return messages, nil
}

// ImportHoles reads a holes file. Re-import is full replacement per wall:
// the first row naming a wall drops that wall's existing holes before any
// inserts. Rows naming unknown walls land in a separate list.
func (s *Service) ImportHoles(ctx context.Context, investmentID uint, path string) ([]string, error) {
	rows, err := csvfile.Read(path)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	uploaded := 0
	var failures, noWall []int
	cleared := map[int]uint{}
	for _, row := range rows {
		key, ok := coerceInt(row["wall_id"])
		if !ok {
			continue
		}
		wallID, ok := cleared[key]
		if !ok {
			var found bool
			wallID, found, err = s.clearWallChildren(ctx, investmentID, key, &models.Hole{})
			if err != nil {
				failures = append(failures, key)
				continue
			}
			if !found {
				noWall = append(noWall, key)
				continue
			}
			cleared[key] = wallID
		}

		in, vErr := validateHoleRow(row)
		if vErr != nil {
			failures = append(failures, key)
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			hole := models.Hole{WallID: wallID, Width: in.Width, Height: in.Height, Amount: in.Amount}
			if err := tx.Create(&hole).Error; err != nil {
				return err
			}
			return recalcWall(tx, wallID)
		})
		if err != nil {
			failures = append(failures, key)
			continue
		}
		uploaded++
	}

	messages := []string{fmt.Sprintf("Uploaded %d items.", uploaded)}
	if len(failures) > 0 {
		messages = append(messages, fmt.Sprintf(
			"Items: %s not added because they has the wrong format.", formatKeys(failures)))
	}
	if len(noWall) > 0 {
		messages = append(messages, fmt.Sprintf(
			"Items: %s not added because wall with specified id does not exist. Add wall first.", formatKeys(noWall)))
	}
	s.recordImportEvent(ctx, investmentID, KindHoles, uploaded, messages)
	return messages, nil
}

// ImportProcessing reads a processing file with the same replacement and
// isolation rules as holes, plus the exhaustion rule: a row whose wall has
// left_to_sale of exactly zero is recorded and skipped before validation.
func (s *Service) ImportProcessing(ctx context.Context, investmentID uint, path string) ([]string, error) {
	rows, err := csvfile.Read(path)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	uploaded := 0
	var failures, noWall, noLeft []int
	cleared := map[int]uint{}
	for _, row := range rows {
		key, ok := coerceInt(row["wall_id"])
		if !ok {
			continue
		}
		wallID, ok := cleared[key]
		if !ok {
			var found bool
			wallID, found, err = s.clearWallChildren(ctx, investmentID, key, &models.Processing{})
			if err != nil {
				failures = append(failures, key)
				continue
			}
			if !found {
				noWall = append(noWall, key)
				continue
			}
			cleared[key] = wallID
		}

		var wall models.Wall
		if err := db.First(&wall, wallID).Error; err != nil {
			failures = append(failures, key)
			continue
		}
		if wall.LeftToSale.IsZero() {
			noLeft = append(noLeft, key)
			continue
		}

		in, vErr := validateProcessingRow(row)
		if vErr != nil {
			failures = append(failures, key)
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			done := in.Done
			if done.GreaterThan(wall.LeftToSale) {
				done = wall.LeftToSale
			}
			proc, err := models.NewProcessing(wallID, in.Year, in.Month, done)
			if err != nil {
				return err
			}
			if err := tx.Create(proc).Error; err != nil {
				return err
			}
			return recalcWall(tx, wallID)
		})
		if err != nil {
			failures = append(failures, key)
			continue
		}
		uploaded++
	}

	messages := []string{fmt.Sprintf("Uploaded %d items.", uploaded)}
	if len(failures) > 0 {
		messages = append(messages, fmt.Sprintf(
			"Items: %s not added because they has the wrong format.", formatKeys(failures)))
	}
	if len(noWall) > 0 {
		messages = append(messages, fmt.Sprintf(
			"Items: %s not added because wall with specified id does not exist. Add wall first.", formatKeys(noWall)))
	}
	if len(noLeft) > 0 {
		messages = append(messages, fmt.Sprintf(
			"Items: %s not added because value of left_to_sale is 0.", formatKeys(noLeft)))
	}
	s.recordImportEvent(ctx, investmentID, KindProcessing, uploaded, messages)
	return messages, nil
}

// clearWallChildren looks a wall up by its local id within the investment
// and, when found, drops its children of the given kind and refreshes the
// derived columns. Returns found=false when no such wall exists.
func (s *Service) clearWallChildren(ctx context.Context, investmentID uint, localID int, child interface{}) (uint, bool, error) {
	db := s.DB.WithContext(ctx)
	var wall models.Wall
	err := db.Select("id").
		Where("investment_id = ? AND local_id = ?", investmentID, localID).
		First(&wall).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wall_id = ?", wall.ID).Delete(child).Error; err != nil {
			return err
		}
		return recalcWall(tx, wall.ID)
	})
	if err != nil {
		return 0, false, err
	}
	return wall.ID, true, nil
}

// recordImportEvent persists the run summary. A failure to record the event
// never fails the import that produced it.
func (s *Service) recordImportEvent(ctx context.Context, investmentID uint, kind string, uploaded int, messages []string) {
	summary, err := json.Marshal(messages)
	if err != nil {
		return
	}
	event := models.ImportEvent{
		InvestmentID: investmentID,
		Kind:         kind,
		Uploaded:     uploaded,
		Summary:      datatypes.JSON(summary),
	}
	if err := s.DB.WithContext(ctx).Create(&event).Error; err != nil {
		log.Warn().Err(err).Str("kind", kind).Uint("investment_id", investmentID).
			Msg("failed to record import event")
	}
	log.Info().Str("kind", kind).Uint("investment_id", investmentID).
		Int("uploaded", uploaded).Msg("import finished")
}
