package masonry

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// coerceInt parses an integer cell. Values written as integral floats
// ("18.0") are accepted, matching how spreadsheet exports render integers.
func coerceInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	return int(d.IntPart()), true
}

func intField(row map[string]string, field string) (int, error) {
	n, ok := coerceInt(row[field])
	if !ok {
		return 0, typeError(field, "int")
	}
	return n, nil
}

func decimalField(row map[string]string, field string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(row[field])
	if f, err := strconv.ParseFloat(raw, 64); err == nil && math.IsNaN(f) {
		return decimal.Decimal{}, domainError(field, "can not be NaN")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, typeError(field, "float")
	}
	return d, nil
}

func stringField(row map[string]string, field string) (string, error) {
	raw := strings.TrimSpace(row[field])
	if strings.EqualFold(raw, "nan") {
		return "", domainError(field, "can not be NaN")
	}
	return raw, nil
}

func validateWallRow(row map[string]string) (WallInput, error) {
	var in WallInput
	var err error
	if in.WallWidth, err = intField(row, "wall_width"); err != nil {
		return in, err
	}
	if in.WallLength, err = decimalField(row, "wall_length"); err != nil {
		return in, err
	}
	if in.FloorOrd, err = decimalField(row, "floor_ord"); err != nil {
		return in, err
	}
	if in.CeilingOrd, err = decimalField(row, "ceiling_ord"); err != nil {
		return in, err
	}
	in.Sector = strings.TrimSpace(row["sector"])
	in.Level = strings.TrimSpace(row["level"])
	in.Localization = strings.TrimSpace(row["localization"])
	in.BrickType = strings.TrimSpace(row["brick_type"])
	return in, nil
}

func validateHoleRow(row map[string]string) (HoleInput, error) {
	var in HoleInput
	width, err := decimalField(row, "width")
	if err != nil {
		return in, err
	}
	height, err := decimalField(row, "height")
	if err != nil {
		return in, err
	}
	in.Width = &width
	in.Height = &height
	if in.Amount, err = intField(row, "amount"); err != nil {
		return in, err
	}
	return in, nil
}

func validateProcessingRow(row map[string]string) (ProcessingInput, error) {
	var in ProcessingInput
	var err error
	if in.Year, err = intField(row, "year"); err != nil {
		return in, err
	}
	if in.Year == 0 {
		return in, domainError("year", "can not be 0 or empty")
	}
	if in.Month, err = stringField(row, "month"); err != nil {
		return in, err
	}
	if in.Done, err = decimalField(row, "done"); err != nil {
		return in, err
	}
	if in.Done.IsNegative() {
		return in, domainError("done", "must be greater than 0")
	}
	return in, nil
}
