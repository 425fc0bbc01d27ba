package masonry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"masonry-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func wallByLocalID(t *testing.T, svc *Service, invID uint, localID int) uint {
	t.Helper()
	var wall models.Wall
	require.NoError(t, svc.DB.
		Where("investment_id = ? AND local_id = ?", invID, localID).
		First(&wall).Error)
	return wall.ID
}

const wallsCSV = `local_id;sector;level;localization;brick_type;wall_width;wall_length;floor_ord;ceiling_ord
1;G;2;O/5;silicate;18;10.5;3.1;6.2
2;G;2;O/6;silicate;18;8.0;3.1;6.2
3;H;1;P/1;ceramic;25;12.0;0.0;3.0
`

func TestImportWalls(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()

	messages, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Uploaded 3 items.", messages[0])

	walls, err := svc.ListWalls(ctx, invID, WallFilters{})
	require.NoError(t, err)
	require.Len(t, walls, 3)
	assert.True(t, walls[0].GrossWallArea.Equal(dec("32.55")))
}

// One bad row never disturbs its siblings; its key lands in the failure list.
func TestImportWallsRowIsolation(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()

	before, err := svc.CreateWall(ctx, invID, testWallInput(9))
	require.NoError(t, err)

	content := `local_id;sector;level;localization;brick_type;wall_width;wall_length;floor_ord;ceiling_ord
1;G;2;O/5;silicate;18;10.5;3.1;6.2
2;G;2;O/6;silicate;not-a-number;8.0;3.1;6.2
3;H;1;P/1;ceramic;25;12.0;0.0;3.0
`
	messages, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", content))
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Uploaded 2 items.", messages[0])
	assert.Equal(t, "Items: [2] not added because they has the wrong format.", messages[1])

	walls, err := svc.ListWalls(ctx, invID, WallFilters{})
	require.NoError(t, err)
	assert.Len(t, walls, 3)

	// The wall present before the run is untouched.
	kept, err := svc.GetWall(ctx, before.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, kept.LocalID)
}

// Rows whose key column does not coerce to an integer are skipped silently,
// so a file with the wrong header yields only the upload count.
func TestImportWallsWrongFile(t *testing.T) {
	svc, invID := setupService(t)

	content := `wall_id;width;height;amount
1;1.2;2.0;2
`
	messages, err := svc.ImportWalls(context.Background(), invID, writeCSV(t, "holes.csv", content))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Uploaded 0 items.", messages[0])
}

func TestImportWallsUnreadableFile(t *testing.T) {
	svc, invID := setupService(t)
	_, err := svc.ImportWalls(context.Background(), invID, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

// Re-importing walls upserts by local_id instead of duplicating.
func TestImportWallsUpsert(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()

	_, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)

	updated := `local_id;sector;level;localization;brick_type;wall_width;wall_length;floor_ord;ceiling_ord
1;G;2;O/5;silicate;25;10.5;3.1;6.2
`
	messages, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls2.csv", updated))
	require.NoError(t, err)
	assert.Equal(t, "Uploaded 1 items.", messages[0])

	walls, err := svc.ListWalls(ctx, invID, WallFilters{})
	require.NoError(t, err)
	require.Len(t, walls, 3)
	assert.Equal(t, 25, walls[0].WallWidth)
}

func TestImportHoles(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	_, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)

	content := `wall_id;width;height;amount
1;1.2;2.0;2
1;2.2;2.0;1
2;1.0;bad;1
7;1.0;1.0;1
`
	messages, err := svc.ImportHoles(ctx, invID, writeCSV(t, "holes.csv", content))
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "Uploaded 2 items.", messages[0])
	assert.Equal(t, "Items: [2] not added because they has the wrong format.", messages[1])
	assert.Equal(t, "Items: [7] not added because wall with specified id does not exist. Add wall first.", messages[2])

	walls, err := svc.ListWalls(ctx, invID, WallFilters{})
	require.NoError(t, err)
	assert.True(t, walls[0].WallAreaToSurvey.Equal(dec("23.35")), "survey %s", walls[0].WallAreaToSurvey)
	assert.True(t, walls[0].WallAreaToSale.Equal(dec("29.15")), "sale %s", walls[0].WallAreaToSale)
}

// Importing a holes file twice leaves exactly the second file's hole set.
func TestImportHolesReplacesOnReimport(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	_, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)

	first := `wall_id;width;height;amount
1;1.2;2.0;2
1;2.2;2.0;1
`
	_, err = svc.ImportHoles(ctx, invID, writeCSV(t, "holes1.csv", first))
	require.NoError(t, err)

	second := `wall_id;width;height;amount
1;1.0;1.0;1
`
	messages, err := svc.ImportHoles(ctx, invID, writeCSV(t, "holes2.csv", second))
	require.NoError(t, err)
	assert.Equal(t, "Uploaded 1 items.", messages[0])

	var holes []models.Hole
	require.NoError(t, svc.DB.Where("wall_id = ?", wallByLocalID(t, svc, invID, 1)).Find(&holes).Error)
	require.Len(t, holes, 1)
	assert.True(t, holes[0].Width.Equal(dec("1.0")))

	walls, err := svc.ListWalls(ctx, invID, WallFilters{})
	require.NoError(t, err)
	assert.True(t, walls[0].WallAreaToSurvey.Equal(dec("31.55")))
}

func TestImportProcessing(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	_, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)

	content := `wall_id;year;month;done
1;2020;November;0.5
1;2020;December;0.6
1;2021;January;0.4
2;0;December;0.5
9;2020;December;0.5
`
	messages, err := svc.ImportProcessing(ctx, invID, writeCSV(t, "processing.csv", content))
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "Uploaded 2 items.", messages[0])
	assert.Equal(t, "Items: [2] not added because they has the wrong format.", messages[1])
	assert.Equal(t, "Items: [9] not added because wall with specified id does not exist. Add wall first.", messages[2])
	assert.Equal(t, "Items: [1] not added because value of left_to_sale is 0.", messages[3])

	// Second row was clamped from 0.6 to the remaining 0.5.
	firstWall := wallByLocalID(t, svc, invID, 1)
	var procs []models.Processing
	require.NoError(t, svc.DB.Where("wall_id = ?", firstWall).Order("id ASC").Find(&procs).Error)
	require.Len(t, procs, 2)
	assert.True(t, procs[0].Done.Equal(dec("0.5")))
	assert.True(t, procs[1].Done.Equal(dec("0.5")))

	left, err := svc.GetLeftToSale(ctx, firstWall)
	require.NoError(t, err)
	assert.True(t, left.IsZero())
}

// Re-import clears each wall's entries once, so completion recorded by an
// earlier run does not block the new file.
func TestImportProcessingReplacesOnReimport(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	_, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)

	content := `wall_id;year;month;done
1;2020;December;1.0
`
	_, err = svc.ImportProcessing(ctx, invID, writeCSV(t, "p1.csv", content))
	require.NoError(t, err)

	second := `wall_id;year;month;done
1;2021;January;0.3
`
	messages, err := svc.ImportProcessing(ctx, invID, writeCSV(t, "p2.csv", second))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Uploaded 1 items.", messages[0])

	left, err := svc.GetLeftToSale(ctx, wallByLocalID(t, svc, invID, 1))
	require.NoError(t, err)
	assert.True(t, left.Equal(dec("0.7")))
}

func TestImportRecordsEvent(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()

	_, err := svc.ImportWalls(ctx, invID, writeCSV(t, "walls.csv", wallsCSV))
	require.NoError(t, err)

	var event models.ImportEvent
	require.NoError(t, svc.DB.First(&event).Error)
	assert.Equal(t, KindWalls, event.Kind)
	assert.Equal(t, 3, event.Uploaded)
	assert.Contains(t, string(event.Summary), "Uploaded 3 items.")
}
