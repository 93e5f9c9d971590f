package tablevet

import (
	"context"

	"github.com/openfield/tablevet/geom"
	"github.com/openfield/tablevet/schema"
)

// Options bundles validation options.
type Options struct {
	// ReturnCorrected asks Validate to assemble a corrected copy of
	// the frame with rule defaults substituted. The input frame is
	// never touched either way.
	ReturnCorrected bool
	// Geometry is the reprojection/measurement backend. Nil selects
	// geom.Planar with a WGS84 source.
	Geometry geom.Ops
}

// Validate evaluates every schema column against the frame and returns
// the aggregated report, plus the corrected frame when requested.
//
// Configuration problems (schema column absent from the frame, rule
// kind not matching the column) return a *schema.ConfigError with
// nothing evaluated. Data-level problems never abort: each becomes a
// Violation and evaluation continues, so one bad row cannot hide
// problems elsewhere.
//
// The corrected frame is all-or-nothing: either the whole frame is
// assembled after a complete pass, or none is returned. Columns
// without a rule pass through unchanged; the geometry column is
// normalized but never geometry-corrected.
func Validate(ctx context.Context, f *Frame, s *schema.Schema, opts Options) (*Report, *Frame, error) {
	if f == nil {
		return nil, nil, &schema.ConfigError{Message: "nil frame"}
	}
	if s == nil {
		return nil, nil, &schema.ConfigError{Message: "nil schema"}
	}
	ops := opts.Geometry
	if ops == nil {
		ops = geom.Planar{}
	}

	// Config pass first: the whole schema must bind to the frame
	// before any row is evaluated.
	for _, col := range s.Columns() {
		r, _ := s.Rule(col)
		if _, ok := f.Column(col); !ok {
			return nil, nil, &schema.ConfigError{Column: col, Message: "column not present in dataset"}
		}
		isGeom := col == f.GeometryColumn()
		if r.Kind == schema.KindGeometry && !isGeom {
			return nil, nil, &schema.ConfigError{Column: col, Message: "geometry rule on a non-geometry column"}
		}
		if r.Kind != schema.KindGeometry && isGeom {
			return nil, nil, &schema.ConfigError{Column: col, Message: r.Kind.String() + " rule on the geometry column"}
		}
	}

	report := &Report{}
	corrected := map[string][]any{}

	for _, col := range s.Columns() {
		r, _ := s.Rule(col)
		raw, _ := f.Column(col)
		normalized := Normalize(raw, r.Nulls)

		switch r.Kind {
		case schema.KindGeometry:
			report.add(evaluateGeometry(ctx, col, normalized, r, ops)...)
			corrected[col] = normalized
		default:
			values, violations := evaluateAttribute(col, normalized, r)
			report.add(violations...)
			corrected[col] = values
		}
	}

	if !opts.ReturnCorrected {
		return report, nil, nil
	}
	out := f.Clone()
	for col, values := range corrected {
		out.setColumn(col, values)
	}
	return report, out, nil
}
