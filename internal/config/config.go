// Package config validates render and routing settings decoded from the
// input document before they reach the routing engine or renderer,
// surfacing spec.md §7's BuildError as a fatal, non-retryable error.
//
// Grounded on the original's RenderSettings field-range comments
// (map_renderer.h) and json_reader.h's settings-parsing step, generalized
// into explicit Go validation since the original relies on comments rather
// than enforced invariants.
package config

import (
	"errors"
	"fmt"

	"github.com/passbi/routestat/internal/models"
)

// ErrInvalidSettings wraps every validation failure; callers distinguish it
// from per-query errors with errors.Is.
var ErrInvalidSettings = errors.New("invalid settings")

const maxDimension = 100000.0

// ValidateRenderSettings rejects settings inconsistent with spec.md §4.5/§6:
// positive dimensions no larger than maxDimension, non-negative padding
// strictly less than half the smaller
// canvas dimension, and a non-empty color palette whenever the catalogue
// the renderer will draw has at least one bus.
func ValidateRenderSettings(s models.RenderSettings, busCount int) error {
	if s.Width <= 0 || s.Width > maxDimension || s.Height <= 0 || s.Height > maxDimension {
		return fmt.Errorf("%w: width/height must be in (0, %g], got %g x %g", ErrInvalidSettings, maxDimension, s.Width, s.Height)
	}
	if s.Padding < 0 {
		return fmt.Errorf("%w: padding must be >= 0, got %g", ErrInvalidSettings, s.Padding)
	}
	minSide := s.Width
	if s.Height < minSide {
		minSide = s.Height
	}
	if s.Padding >= minSide/2 {
		return fmt.Errorf("%w: padding %g must be less than min(width,height)/2 = %g", ErrInvalidSettings, s.Padding, minSide/2)
	}
	if s.LineWidth < 0 || s.LineWidth > maxDimension {
		return fmt.Errorf("%w: line_width out of range: %g", ErrInvalidSettings, s.LineWidth)
	}
	if s.StopRadius < 0 || s.StopRadius > maxDimension {
		return fmt.Errorf("%w: stop_radius out of range: %g", ErrInvalidSettings, s.StopRadius)
	}
	if busCount > 0 && len(s.ColorPalette) == 0 {
		return fmt.Errorf("%w: color_palette must be non-empty when any bus exists", ErrInvalidSettings)
	}
	return nil
}

// ValidateRoutingSettings rejects a non-positive velocity, which would make
// every travel_time infinite or undefined.
func ValidateRoutingSettings(s models.RoutingSettings) error {
	if s.BusVelocity <= 0 {
		return fmt.Errorf("%w: bus_velocity must be > 0, got %g", ErrInvalidSettings, s.BusVelocity)
	}
	if s.BusWaitTime < 0 {
		return fmt.Errorf("%w: bus_wait_time must be >= 0, got %d", ErrInvalidSettings, s.BusWaitTime)
	}
	return nil
}
