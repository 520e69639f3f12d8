package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(40)
	window.Append(50)
	window.Append(60)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 50.0, avg)
}

func TestGetWindowAvg_OldValuesAreDropped(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)
	FillWindow(window, 2, 10)
	window.Append(30)
	window.Append(50)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 40.0, avg)
}
