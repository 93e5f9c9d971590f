package tablevet

// Violation reasons (exported consts so callers can match findings
// without scattering string literals). Fatal configuration problems
// are *schema.ConfigError values, never Violations.
const (
	ReasonNotAccepted     = "not in accepted set"
	ReasonBelowMinimum    = "below minimum"
	ReasonAboveMaximum    = "above maximum"
	ReasonNonComparable   = "non-comparable type"
	ReasonSliver          = "below sliver threshold"
	ReasonOutsideBBox     = "outside bounding box"
	ReasonMissingGeometry = "missing geometry"
	ReasonNotGeometry     = "not a geometry"
	ReasonReprojection    = "reprojection failed"
)
