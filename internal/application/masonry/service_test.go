package masonry

import (
	"context"
	"testing"

	"masonry-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intp(n int) *int { return &n }

func setupService(t *testing.T) (*Service, uint) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Investment{}, &models.Wall{}, &models.Hole{},
		&models.Processing{}, &models.ImportEvent{},
	))
	inv := models.Investment{Name: "Test Estate"}
	require.NoError(t, db.Create(&inv).Error)
	return &Service{DB: db}, inv.ID
}

func testWallInput(localID int) WallInput {
	return WallInput{
		LocalID:    localID,
		Sector:     "G",
		Level:      "2",
		BrickType:  "silicate",
		WallWidth:  18,
		WallLength: dec("10.5"),
		FloorOrd:   dec("3.1"),
		CeilingOrd: dec("6.2"),
	}
}

func TestCreateWallScenario(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()

	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)
	assert.True(t, wall.WallHeight.Equal(dec("3.1")))
	assert.True(t, wall.GrossWallArea.Equal(dec("32.55")))
	assert.True(t, wall.LeftToSale.Equal(dec("1")))

	_, err = svc.AddHole(ctx, wall.ID, HoleInput{Width: decp("1.2"), Height: decp("2.0"), Amount: 2})
	require.NoError(t, err)
	_, err = svc.AddHole(ctx, wall.ID, HoleInput{Width: decp("2.2"), Height: decp("2.0"), Amount: 1})
	require.NoError(t, err)
	_, err = svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("0.4")})
	require.NoError(t, err)

	fields, err := svc.GetWallAreaFields(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, fields.WallAreaToSurvey.Equal(dec("23.35")), "survey %s", fields.WallAreaToSurvey)
	assert.True(t, fields.WallAreaToSale.Equal(dec("29.15")), "sale %s", fields.WallAreaToSale)
	assert.True(t, fields.LeftToSale.Equal(dec("0.6")))
}

func TestCreateWallUnknownInvestment(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.CreateWall(context.Background(), 999, testWallInput(1))
	assert.ErrorIs(t, err, ErrInvestmentNotFound)
}

func TestEditWallRecomputes(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	updated, err := svc.EditWall(ctx, wall.ID, WallUpdate{FloorOrd: decp("4")})
	require.NoError(t, err)
	assert.True(t, updated.WallHeight.Equal(dec("2.2")))
	assert.True(t, updated.GrossWallArea.Equal(dec("23.1")))
	assert.True(t, updated.WallAreaToSurvey.Equal(dec("23.1")))
	assert.True(t, updated.WallAreaToSale.Equal(dec("23.1")))
}

func TestEditHoleRecomputes(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)
	hole, err := svc.AddHole(ctx, wall.ID, HoleInput{Width: decp("1.2"), Height: decp("2.0"), Amount: 2})
	require.NoError(t, err)

	fields, err := svc.GetWallAreaFields(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, fields.WallAreaToSurvey.Equal(dec("27.75")))

	_, err = svc.EditHole(ctx, hole.ID, HoleUpdate{Width: decp("1.5"), Height: decp("2.5"), Amount: intp(1)})
	require.NoError(t, err)

	fields, err = svc.GetWallAreaFields(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, fields.WallAreaToSurvey.Equal(dec("28.8")), "survey %s", fields.WallAreaToSurvey)
}

func TestAddHoleWithoutHeight(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	hole, err := svc.AddHole(ctx, wall.ID, HoleInput{Width: decp("1.2"), Amount: 2})
	require.NoError(t, err)
	assert.Nil(t, hole.Height)
	_, err = hole.Area()
	assert.ErrorIs(t, err, models.ErrHoleDimensions)

	// No deduction until both dimensions exist.
	fields, err := svc.GetWallAreaFields(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, fields.WallAreaToSurvey.Equal(dec("32.55")))
}

func TestAddHoleUnknownWall(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.AddHole(context.Background(), 42, HoleInput{Width: decp("1"), Height: decp("1"), Amount: 1})
	assert.ErrorIs(t, err, ErrWallNotFound)
}

func TestAddProcessingClamp(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	_, err = svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "November", Done: dec("0.4")})
	require.NoError(t, err)
	_, err = svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("0.5")})
	require.NoError(t, err)

	left, err := svc.GetLeftToSale(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, left.Equal(dec("0.1")))

	// Requested 0.7 with 0.1 left: stored as exactly 0.1, wall exhausted.
	proc, err := svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2021, Month: "January", Done: dec("0.7")})
	require.NoError(t, err)
	assert.True(t, proc.Done.Equal(dec("0.1")))

	left, err = svc.GetLeftToSale(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, left.IsZero())
}

func TestAddProcessingAboveOne(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	proc, err := svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("2")})
	require.NoError(t, err)
	assert.True(t, proc.Done.Equal(dec("1")))

	left, err := svc.GetLeftToSale(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, left.IsZero())
}

func TestAddProcessingNegative(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	_, err = svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("-0.1")})
	assert.ErrorIs(t, err, models.ErrDoneOutOfRange)
}

func TestEditProcessingClamp(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	_, err = svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "November", Done: dec("0.6")})
	require.NoError(t, err)
	second, err := svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("0.3")})
	require.NoError(t, err)

	// Headroom is 0.1 left + 0.3 of the edited entry itself.
	edited, err := svc.EditProcessing(ctx, second.ID, ProcessingUpdate{Done: decp("0.5")})
	require.NoError(t, err)
	assert.True(t, edited.Done.Equal(dec("0.4")), "done %s", edited.Done)

	left, err := svc.GetLeftToSale(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, left.IsZero())
}

func TestEditProcessingAboveOne(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)

	proc, err := svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("0.6")})
	require.NoError(t, err)

	edited, err := svc.EditProcessing(ctx, proc.ID, ProcessingUpdate{Done: decp("1.35")})
	require.NoError(t, err)
	assert.True(t, edited.Done.Equal(dec("1")))

	left, err := svc.GetLeftToSale(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, left.IsZero())
}

func TestDeleteWallCascades(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)
	_, err = svc.AddHole(ctx, wall.ID, HoleInput{Width: decp("1"), Height: decp("2"), Amount: 1})
	require.NoError(t, err)
	_, err = svc.AddProcessing(ctx, wall.ID, ProcessingInput{Year: 2020, Month: "December", Done: dec("0.5")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWall(ctx, wall.ID))

	var walls, holes, procs int64
	svc.DB.Model(&models.Wall{}).Count(&walls)
	svc.DB.Model(&models.Hole{}).Count(&holes)
	svc.DB.Model(&models.Processing{}).Count(&procs)
	assert.Zero(t, walls)
	assert.Zero(t, holes)
	assert.Zero(t, procs)
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	assert.NoError(t, svc.DeleteWall(ctx, 1))
	assert.NoError(t, svc.DeleteHole(ctx, 1))
	assert.NoError(t, svc.DeleteProcessing(ctx, 1))
}

func TestDeleteHoleRecomputes(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	wall, err := svc.CreateWall(ctx, invID, testWallInput(1))
	require.NoError(t, err)
	hole, err := svc.AddHole(ctx, wall.ID, HoleInput{Width: decp("2.2"), Height: decp("2.0"), Amount: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHole(ctx, hole.ID))

	fields, err := svc.GetWallAreaFields(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, fields.WallAreaToSurvey.Equal(dec("32.55")))
	assert.True(t, fields.WallAreaToSale.Equal(dec("32.55")))
}

func TestListWallsFiltersAndOrder(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()

	for _, in := range []WallInput{
		{LocalID: 3, Sector: "G", Level: "1", WallLength: dec("5"), FloorOrd: dec("0"), CeilingOrd: dec("3")},
		{LocalID: 1, Sector: "G", Level: "2", WallLength: dec("5"), FloorOrd: dec("0"), CeilingOrd: dec("3")},
		{LocalID: 2, Sector: "H", Level: "1", WallLength: dec("5"), FloorOrd: dec("0"), CeilingOrd: dec("3")},
	} {
		_, err := svc.CreateWall(ctx, invID, in)
		require.NoError(t, err)
	}

	walls, err := svc.ListWalls(ctx, invID, WallFilters{})
	require.NoError(t, err)
	require.Len(t, walls, 3)
	assert.Equal(t, 1, walls[0].LocalID)
	assert.Equal(t, 2, walls[1].LocalID)
	assert.Equal(t, 3, walls[2].LocalID)

	walls, err = svc.ListWalls(ctx, invID, WallFilters{Sector: "G"})
	require.NoError(t, err)
	assert.Len(t, walls, 2)

	walls, err = svc.ListWalls(ctx, invID, WallFilters{Sector: "G", Level: "1"})
	require.NoError(t, err)
	assert.Len(t, walls, 1)
}

func TestCategories(t *testing.T) {
	svc, invID := setupService(t)
	ctx := context.Background()
	for i, sector := range []string{"G", "H", "G"} {
		in := testWallInput(i + 1)
		in.Sector = sector
		_, err := svc.CreateWall(ctx, invID, in)
		require.NoError(t, err)
	}

	values, err := svc.Categories(ctx, invID, "sector")
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "H"}, values)

	_, err = svc.Categories(ctx, invID, "id; DROP TABLE Walls")
	assert.Error(t, err)
}

func TestSumAreas(t *testing.T) {
	walls := []models.Wall{
		{GrossWallArea: dec("32.55"), WallAreaToSurvey: dec("23.35"), WallAreaToSale: dec("29.15"), LeftToSale: dec("0.6")},
		{GrossWallArea: dec("10"), WallAreaToSurvey: dec("10"), WallAreaToSale: dec("10"), LeftToSale: dec("1")},
	}
	total := SumAreas(walls)
	assert.True(t, total.GrossWallArea.Equal(dec("42.55")))
	assert.True(t, total.WallAreaToSurvey.Equal(dec("33.35")))
	assert.True(t, total.WallAreaToSale.Equal(dec("39.15")))
	assert.True(t, total.AreaLeftToSale.Equal(dec("27.49")), "left %s", total.AreaLeftToSale)
}
