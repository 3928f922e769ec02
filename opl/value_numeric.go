package opl

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// parseInteger reads a numeral as a 32-bit integer. A numeral with a
// fractional part is truncated toward zero.
func parseInteger(text string) (int32, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err == nil {
		return int32(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, newKindError(InvalidNumber, "integer %s is out of range", text)
	}
	f, ferr := strconv.ParseFloat(text, 64)
	if ferr != nil || math.IsNaN(f) {
		return 0, newKindError(InvalidNumber, "invalid integer %q", text)
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, newKindError(InvalidNumber, "integer %s is out of range", text)
	}
	return int32(f), nil
}

func parseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, newKindError(InvalidNumber, "invalid float %q", text)
	}
	return f, nil
}

// formatFloat renders the shortest text that reads back as f, always with
// a fractional part so the numeral stays recognisably a float.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func formatInteger(n int32) string {
	return strconv.FormatInt(int64(n), 10)
}

func isNumeric(v Value) bool {
	return v.kind == KindInteger || v.kind == KindFloat
}

func integerOperand(v Value) (int32, error) {
	return parseInteger(v.data.(string))
}

func floatOperand(v Value) (float64, error) {
	return parseFloat(v.data.(string))
}
