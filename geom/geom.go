// Package geom abstracts the geometric machinery the validation engine
// delegates: reprojection and measurement. Evaluation code depends
// only on Ops, so it can run against any backend, including fakes in
// tests.
package geom

import (
	"context"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// Ops is the capability contract for geometry checks. Area and Length
// are taken in whatever coordinate system the geometry is currently
// expressed in; Reproject moves a geometry into the projection
// identified by an EPSG code.
type Ops interface {
	Reproject(ctx context.Context, g orb.Geometry, epsg int) (orb.Geometry, error)
	Area(g orb.Geometry) float64
	Length(g orb.Geometry) float64
}

// Planar measures in cartesian coordinates and reprojects between the
// coordinate systems it knows natively: identity for the source EPSG,
// and WGS84 <-> Web Mercator. Anything else returns an error.
type Planar struct {
	// SourceEPSG is the CRS incoming geometries are expressed in.
	// Zero means EPSG:4326.
	SourceEPSG int
}

const (
	epsgWGS84          = 4326
	epsgWebMercator    = 3857
	epsgWebMercatorAlt = 900913 // legacy alias still common in the wild
)

func (p Planar) source() int {
	if p.SourceEPSG == 0 {
		return epsgWGS84
	}
	return p.SourceEPSG
}

// Reproject implements Ops.
func (p Planar) Reproject(_ context.Context, g orb.Geometry, epsg int) (orb.Geometry, error) {
	src := p.source()
	if epsg == src {
		return g, nil
	}
	switch {
	case src == epsgWGS84 && mercator(epsg):
		return project.Geometry(orb.Clone(g), project.WGS84.ToMercator), nil
	case mercator(src) && epsg == epsgWGS84:
		return project.Geometry(orb.Clone(g), project.Mercator.ToWGS84), nil
	}
	return nil, fmt.Errorf("geom: no projection from EPSG:%d to EPSG:%d", src, epsg)
}

// Area implements Ops, returning the unsigned planar area.
func (Planar) Area(g orb.Geometry) float64 { return math.Abs(planar.Area(g)) }

// Length implements Ops.
func (Planar) Length(g orb.Geometry) float64 { return planar.Length(g) }

func mercator(epsg int) bool { return epsg == epsgWebMercator || epsg == epsgWebMercatorAlt }

// Empty reports whether g carries no coordinates at all. A nil
// Geometry is empty; points are never empty.
func Empty(g orb.Geometry) bool {
	switch t := g.(type) {
	case nil:
		return true
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(t) == 0
	case orb.LineString:
		return len(t) == 0
	case orb.MultiLineString:
		return len(t) == 0
	case orb.Ring:
		return len(t) == 0
	case orb.Polygon:
		return len(t) == 0
	case orb.MultiPolygon:
		return len(t) == 0
	case orb.Collection:
		return len(t) == 0
	}
	return false
}
