// Package sphereproj fits a set of geographic points into a padded
// rectangle, choosing the largest zoom that keeps both axes inside it.
//
// Grounded on the original map_renderer.h's SphereProjector, generalized
// from a C++ iterator-pair constructor to a Go slice constructor.
package sphereproj

import (
	"github.com/passbi/routestat/internal/geo"
	"github.com/passbi/routestat/internal/svg"
)

const epsilon = 1e-6

// Projector converts geographic coordinates to canvas points.
type Projector struct {
	padding float64
	minLon  float64
	maxLat  float64
	zoom    float64
}

// New builds a Projector fitting points into a width x height canvas with
// uniform padding. An empty points slice yields a degenerate projector that
// maps everything to (padding, padding).
func New(points []geo.Coordinates, width, height, padding float64) *Projector {
	p := &Projector{padding: padding}
	if len(points) == 0 {
		return p
	}

	minLon, maxLon := points[0].Longitude, points[0].Longitude
	minLat, maxLat := points[0].Latitude, points[0].Latitude
	for _, pt := range points[1:] {
		if pt.Longitude < minLon {
			minLon = pt.Longitude
		}
		if pt.Longitude > maxLon {
			maxLon = pt.Longitude
		}
		if pt.Latitude < minLat {
			minLat = pt.Latitude
		}
		if pt.Latitude > maxLat {
			maxLat = pt.Latitude
		}
	}

	p.minLon = minLon
	p.maxLat = maxLat

	var widthZoom, heightZoom *float64
	if lonSpan := maxLon - minLon; lonSpan > epsilon {
		z := (width - 2*padding) / lonSpan
		widthZoom = &z
	}
	if latSpan := maxLat - minLat; latSpan > epsilon {
		z := (height - 2*padding) / latSpan
		heightZoom = &z
	}

	switch {
	case widthZoom != nil && heightZoom != nil:
		p.zoom = min(*widthZoom, *heightZoom)
	case widthZoom != nil:
		p.zoom = *widthZoom
	case heightZoom != nil:
		p.zoom = *heightZoom
	default:
		p.zoom = 0
	}

	return p
}

// Project converts one coordinate to a canvas point. y is inverted so that
// north (higher latitude) ends up higher on the canvas.
func (p *Projector) Project(c geo.Coordinates) svg.Point {
	return svg.Point{
		X: (c.Longitude-p.minLon)*p.zoom + p.padding,
		Y: (p.maxLat-c.Latitude)*p.zoom + p.padding,
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
