// Package report derives the human-facing numbers shown next to a pattern:
// dimensions, a stitching time estimate, a fabric size recommendation and
// the number of floss skeins to buy. Every function here is pure.
package report

import (
	"fmt"
	"math"
)

const (
	stitchesPerHour  = 200
	stitchesPerSkein = 1000

	// AidaCount is the fabric mesh density (stitches per inch) assumed by
	// the fabric recommendation.
	AidaCount = 14

	// fabricBorder is the border allowance added to each axis, in the
	// same units as cells × AidaCount.
	fabricBorder = 84

	// fabricDivisor keeps the reference case exact: 50 cells ⇒ 32 cm.
	// 25.4 would give 31 cm there.
	fabricDivisor = 24.5
)

// Metrics bundles every derived value for one grid.
type Metrics struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	StitchCount  int    `json:"stitchCount"`
	Dimensions   string `json:"dimensions"`
	Time         string `json:"time"`
	FabricWidth  int    `json:"fabricWidthCm"`
	FabricHeight int    `json:"fabricHeightCm"`
	Fabric       string `json:"fabric"`
	Skeins       int    `json:"skeins"`
	Floss        string `json:"floss"`
}

// Summarize computes all metrics from the grid size and stitch count.
func Summarize(width, height, stitchCount int) Metrics {
	return Metrics{
		Width:        width,
		Height:       height,
		StitchCount:  stitchCount,
		Dimensions:   Dimensions(width, height),
		Time:         TimeEstimate(stitchCount),
		FabricWidth:  FabricCM(width),
		FabricHeight: FabricCM(height),
		Fabric:       FabricSize(width, height),
		Skeins:       Skeins(stitchCount),
		Floss:        FlossEstimate(stitchCount),
	}
}

// Dimensions formats the grid size as "W × H stitches".
func Dimensions(width, height int) string {
	return fmt.Sprintf("%d × %d stitches", width, height)
}

// Hours returns ceil(stitchCount / 200).
func Hours(stitchCount int) int {
	return int(math.Ceil(float64(stitchCount) / stitchesPerHour))
}

// TimeEstimate formats the stitching time. Anything under 200 stitches is
// "Less than 1 hour"; beyond that the hour count is rounded up.
func TimeEstimate(stitchCount int) string {
	if float64(stitchCount)/stitchesPerHour < 1 {
		return "Less than 1 hour"
	}
	hours := Hours(stitchCount)
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

// FabricCM returns the recommended fabric length in centimetres for one axis.
func FabricCM(cells int) int {
	return int(math.Ceil(float64(cells*AidaCount+fabricBorder) / fabricDivisor))
}

// FabricSize formats the recommendation for both axes.
func FabricSize(width, height int) string {
	return fmt.Sprintf("%d cm × %d cm (%d-count Aida)", FabricCM(width), FabricCM(height), AidaCount)
}

// Skeins returns max(1, ceil(stitchCount / 1000)).
func Skeins(stitchCount int) int {
	n := int(math.Ceil(float64(stitchCount) / stitchesPerSkein))
	if n < 1 {
		return 1
	}
	return n
}

// FlossEstimate formats the skein count with a pluralized label.
func FlossEstimate(stitchCount int) string {
	n := Skeins(stitchCount)
	if n == 1 {
		return "1 skein"
	}
	return fmt.Sprintf("%d skeins", n)
}
