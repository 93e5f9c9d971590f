package tablevet

// Package tablevet provides:
//
// - Schema-driven validation of in-memory tabular and geospatial frames
// - A stable findings model via Violation/Report (column, row, reason, resolution)
// - Null-synonym normalization to a canonical Missing marker ahead of rule checks
// - Optional default substitution producing a corrected frame, never in-place mutation
//
// Design policy:
// - Keep only public APIs in the root package; put scalar comparison under internal/.
// - Place the rule model and its builder under schema/, the geometry capability under geom/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := schema.New().
//		Column("status").Accepted("open", "closed").Default("open").
//		MustBuild()
//	rep, corrected, err := tablevet.Validate(ctx, frame, s, tablevet.Options{ReturnCorrected: true})
