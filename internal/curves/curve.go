package curves

import (
	"errors"
	"fmt"
	"math"

	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/util"
)

// TableSize covers every temperature an 8-bit index can address
const TableSize = 256

var (
	ErrEmptyCurve    = errors.New("curve has no control points")
	ErrUnsortedCurve = errors.New("curve temperatures are not strictly increasing")
)

// ControlPoint pins a duty cycle percentage to a temperature
type ControlPoint struct {
	Temperature uint8 `json:"temperature"`
	Percentage  uint8 `json:"percentage"`
}

// DutyTable maps every integer temperature to a duty cycle percentage
type DutyTable [TableSize]uint8

// Lookup returns the duty cycle percentage for the given temperature
func (t DutyTable) Lookup(temperature uint8) uint8 {
	return t[temperature]
}

// DutyFraction returns the duty cycle for the given temperature in [0..1],
// or above 1 if the curve produced a percentage greater than 100
func (t DutyTable) DutyFraction(temperature uint8) float64 {
	return float64(t[temperature]) / 100.0
}

// Values returns all table entries, indexed by temperature
func (t DutyTable) Values() []float64 {
	values := make([]float64, 0, TableSize)
	for _, v := range t {
		values = append(values, float64(v))
	}
	return values
}

// FromConfig converts validated curve points from the configuration
func FromConfig(points []configuration.CurvePointConfig) []ControlPoint {
	result := make([]ControlPoint, 0, len(points))
	for _, p := range points {
		result = append(result, ControlPoint{
			Temperature: uint8(p.Temperature),
			Percentage:  uint8(p.Percentage),
		})
	}
	return result
}

// Compile creates the duty table for the given curve in a single pass over all temperatures.
//
// Below the first and above the last control point the table is flat, the
// temperature of a control point maps to its own percentage and all values in
// between follow the line through the neighbouring points, anchored at the
// temperature of the lower one.
func Compile(curve []ControlPoint) (table DutyTable, err error) {
	if len(curve) <= 0 {
		return table, ErrEmptyCurve
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].Temperature <= curve[i-1].Temperature {
			return table, fmt.Errorf("%w: %d after %d", ErrUnsortedCurve, curve[i].Temperature, curve[i-1].Temperature)
		}
	}

	first := curve[0]
	last := curve[len(curve)-1]

	cursor := 0
	for i := range table {
		// temperatures are strictly increasing integers, so at most one point is passed per index
		if cursor < len(curve) && int(curve[cursor].Temperature) < i {
			cursor++
		}

		switch {
		case cursor == 0:
			table[i] = first.Percentage
		case cursor >= len(curve):
			table[i] = last.Percentage
		case int(curve[cursor].Temperature) == i:
			table[i] = curve[cursor].Percentage
		default:
			table[i] = interpolate(curve[cursor-1], curve[cursor], i)
		}
	}

	return table, nil
}

func interpolate(lower ControlPoint, upper ControlPoint, temperature int) uint8 {
	dTemp := int16(lower.Temperature) - int16(upper.Temperature)
	dSpeed := int16(lower.Percentage) - int16(upper.Percentage)
	a := float32(dSpeed) / float32(dTemp)
	b := float32(lower.Temperature)
	// explicit conversion keeps the product from being fused with the subtraction
	product := float32(a * float32(temperature))
	return util.SaturateUint8(math.Round(float64(product - b)))
}
