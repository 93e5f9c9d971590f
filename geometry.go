package tablevet

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/openfield/tablevet/geom"
	"github.com/openfield/tablevet/schema"
)

// evaluateGeometry runs sliver and bounding-box checks over the
// geometry column. Reprojection and measurement are delegated to ops;
// this function owns only the comparisons and the violation records.
// Geometry violations are never corrected, only flagged.
func evaluateGeometry(ctx context.Context, column string, values []any, r schema.ColumnRule, ops geom.Ops) []Violation {
	var violations []Violation
	flag := func(row int, v any, reason string) {
		violations = append(violations, Violation{
			Column: column,
			Row:    row,
			Kind:   schema.KindGeometry,
			Value:  v,
			Reason: reason,
		})
	}

	for i, v := range values {
		// A row without a usable geometry fails regardless of which
		// checks are configured; nothing spatial can run on it.
		if IsMissing(v) {
			flag(i, nil, ReasonMissingGeometry)
			continue
		}
		g, ok := v.(orb.Geometry)
		if !ok {
			flag(i, v, ReasonNotGeometry)
			continue
		}
		if geom.Empty(g) {
			flag(i, g, ReasonMissingGeometry)
			continue
		}

		if r.Sliver != nil && g.Dimensions() > 0 {
			// Points have no area or length notion and are exempt.
			projected, err := ops.Reproject(ctx, g, r.Sliver.EPSG)
			if err != nil {
				flag(i, g, ReasonReprojection)
			} else {
				var measure float64
				if projected.Dimensions() >= 2 {
					measure = ops.Area(projected)
				} else {
					measure = ops.Length(projected)
				}
				if measure < r.Sliver.Threshold {
					flag(i, g, ReasonSliver)
				}
			}
		}

		if r.Bound != nil && !contained(g.Bound(), *r.Bound) {
			flag(i, g, ReasonOutsideBBox)
		}
	}
	return violations
}

// contained is strict containment: any vertex outside the box fails,
// partial overlap included. Checked in native coordinates.
func contained(b orb.Bound, box schema.BoundingBox) bool {
	return b.Min.X() >= box.XMin && b.Max.X() <= box.XMax &&
		b.Min.Y() >= box.YMin && b.Max.Y() <= box.YMax
}
