package schema

import (
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/openfield/tablevet/internal/value"
)

// Raw schema keys. Anything else is rejected.
const (
	keyAccepted    = "accepted"
	keyRange       = "range"
	keyDefault     = "default"
	keyNulls       = "nulls"
	keySliver      = "sliver"
	keyBoundingBox = "bounding_box"

	keySliverThreshold = "threshold"
	keySliverEPSG      = "projected_coordinates"
)

// ParseMap builds a Schema from a raw column -> rule mapping. Every
// structural problem is reported here, never during evaluation. Go
// maps carry no order, so columns are taken in sorted name order; use
// ParseYAML or the builder when author order matters.
func ParseMap(raw map[string]any) (*Schema, error) {
	cols := make([]string, 0, len(raw))
	for col := range raw {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	s := &Schema{}
	for _, col := range cols {
		r, err := parseRule(col, raw[col])
		if err != nil {
			return nil, err
		}
		if err := s.add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ParseJSON decodes a JSON document of column rules and parses it.
// Column order follows ParseMap semantics.
func ParseJSON(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "invalid schema JSON: " + err.Error()}
	}
	return ParseMap(raw)
}

// ParseYAML decodes a YAML document of column rules, preserving the
// author's column order.
func ParseYAML(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Message: "invalid schema YAML: " + err.Error()}
	}
	if len(doc.Content) == 0 {
		return &Schema{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Message: "schema YAML must be a mapping of column rules"}
	}

	s := &Schema{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		col := root.Content[i].Value
		var rawRule any
		if err := root.Content[i+1].Decode(&rawRule); err != nil {
			return nil, &ConfigError{Column: col, Message: "invalid rule YAML: " + err.Error()}
		}
		r, err := parseRule(col, rawRule)
		if err != nil {
			return nil, err
		}
		if err := s.add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func parseRule(col string, raw any) (ColumnRule, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return ColumnRule{}, &ConfigError{Column: col, Message: fmt.Sprintf("rule must be a mapping, got %T", raw)}
	}
	for k := range m {
		switch k {
		case keyAccepted, keyRange, keyDefault, keyNulls, keySliver, keyBoundingBox:
		default:
			return ColumnRule{}, &ConfigError{Column: col, Key: k, Message: "unknown rule key"}
		}
	}

	_, hasAccepted := m[keyAccepted]
	_, hasRange := m[keyRange]
	_, hasSliver := m[keySliver]
	_, hasBBox := m[keyBoundingBox]
	_, hasDefault := m[keyDefault]
	_, hasNulls := m[keyNulls]

	if hasAccepted && hasRange {
		return ColumnRule{}, &ConfigError{Column: col, Message: "accepted and range are mutually exclusive"}
	}
	if (hasAccepted || hasRange) && (hasSliver || hasBBox) {
		return ColumnRule{}, &ConfigError{Column: col, Message: "attribute and geometry rules are mutually exclusive"}
	}
	if !hasAccepted && !hasRange && !hasSliver && !hasBBox {
		return ColumnRule{}, &ConfigError{Column: col, Message: "rule declares no kind (need accepted, range, sliver or bounding_box)"}
	}

	r := ColumnRule{Column: col}

	switch {
	case hasAccepted:
		r.Kind = KindCategorical
		list, err := anySlice(col, keyAccepted, m[keyAccepted])
		if err != nil {
			return ColumnRule{}, err
		}
		if len(list) == 0 {
			return ColumnRule{}, &ConfigError{Column: col, Key: keyAccepted, Message: "accepted set must not be empty"}
		}
		r.Accepted = list

	case hasRange:
		r.Kind = KindRange
		bounds, err := anySlice(col, keyRange, m[keyRange])
		if err != nil {
			return ColumnRule{}, err
		}
		if len(bounds) != 2 {
			return ColumnRule{}, &ConfigError{Column: col, Key: keyRange, Message: "range must be [min, max]"}
		}
		r.Min, r.Max = bounds[0], bounds[1]
		if r.Min != nil && !value.Orderable(r.Min) {
			return ColumnRule{}, &ConfigError{Column: col, Key: keyRange, Message: fmt.Sprintf("min has no ordering: %T", r.Min)}
		}
		if r.Max != nil && !value.Orderable(r.Max) {
			return ColumnRule{}, &ConfigError{Column: col, Key: keyRange, Message: fmt.Sprintf("max has no ordering: %T", r.Max)}
		}
		if r.Min != nil && r.Max != nil {
			c, ok := value.Compare(r.Min, r.Max)
			if !ok {
				return ColumnRule{}, &ConfigError{Column: col, Key: keyRange, Message: "min and max are not comparable with each other"}
			}
			if c > 0 {
				return ColumnRule{}, &ConfigError{Column: col, Key: keyRange, Message: "min must not exceed max"}
			}
		}

	default: // geometry
		r.Kind = KindGeometry
		if hasDefault {
			return ColumnRule{}, &ConfigError{Column: col, Key: keyDefault, Message: "geometry rules cannot carry a default (geometry is never auto-corrected)"}
		}
		if hasNulls {
			return ColumnRule{}, &ConfigError{Column: col, Key: keyNulls, Message: "geometry rules cannot declare null synonyms"}
		}
		if hasSliver {
			sl, err := parseSliver(col, m[keySliver])
			if err != nil {
				return ColumnRule{}, err
			}
			r.Sliver = sl
		}
		if hasBBox {
			bb, err := parseBoundingBox(col, m[keyBoundingBox])
			if err != nil {
				return ColumnRule{}, err
			}
			r.Bound = bb
		}
		return r, nil
	}

	// Attribute rules share default and nulls handling.
	if hasNulls {
		list, err := anySlice(col, keyNulls, m[keyNulls])
		if err != nil {
			return ColumnRule{}, err
		}
		r.Nulls = list
	}
	r.Nulls = mergeNulls(r.Nulls)

	if hasDefault {
		r.Default = m[keyDefault]
		r.HasDefault = true
		if err := checkDefault(r); err != nil {
			return ColumnRule{}, err
		}
	}
	return r, nil
}

// checkDefault rejects defaults that would themselves violate the rule
// they are meant to repair.
func checkDefault(r ColumnRule) error {
	switch r.Kind {
	case KindCategorical:
		for _, a := range r.Accepted {
			if value.Equal(r.Default, a) {
				return nil
			}
		}
		return &ConfigError{Column: r.Column, Key: keyDefault, Message: "default is not in the accepted set"}
	case KindRange:
		if r.Min != nil {
			c, ok := value.Compare(r.Default, r.Min)
			if !ok {
				return &ConfigError{Column: r.Column, Key: keyDefault, Message: "default is not comparable with the range bounds"}
			}
			if c < 0 {
				return &ConfigError{Column: r.Column, Key: keyDefault, Message: "default is below the range minimum"}
			}
		}
		if r.Max != nil {
			c, ok := value.Compare(r.Default, r.Max)
			if !ok {
				return &ConfigError{Column: r.Column, Key: keyDefault, Message: "default is not comparable with the range bounds"}
			}
			if c > 0 {
				return &ConfigError{Column: r.Column, Key: keyDefault, Message: "default is above the range maximum"}
			}
		}
	}
	return nil
}

func parseSliver(col string, raw any) (*SliverRule, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConfigError{Column: col, Key: keySliver, Message: fmt.Sprintf("sliver must be a mapping, got %T", raw)}
	}
	for k := range m {
		switch k {
		case keySliverThreshold, keySliverEPSG:
		default:
			return nil, &ConfigError{Column: col, Key: keySliver, Message: "unknown sliver key " + k}
		}
	}
	th, ok := value.ToFloat(m[keySliverThreshold])
	if !ok {
		return nil, &ConfigError{Column: col, Key: keySliver, Message: "threshold must be a number"}
	}
	if th <= 0 {
		return nil, &ConfigError{Column: col, Key: keySliver, Message: "threshold must be positive"}
	}
	epsg, ok := value.ToFloat(m[keySliverEPSG])
	if !ok || epsg != float64(int(epsg)) || epsg <= 0 {
		return nil, &ConfigError{Column: col, Key: keySliver, Message: "projected_coordinates must be a positive EPSG code"}
	}
	return &SliverRule{Threshold: th, EPSG: int(epsg)}, nil
}

func parseBoundingBox(col string, raw any) (*BoundingBox, error) {
	list, err := anySlice(col, keyBoundingBox, raw)
	if err != nil {
		return nil, err
	}
	if len(list) != 4 {
		return nil, &ConfigError{Column: col, Key: keyBoundingBox, Message: "bounding_box must be [xmin, xmax, ymin, ymax]"}
	}
	nums := make([]float64, 4)
	for i, v := range list {
		f, ok := value.ToFloat(v)
		if !ok {
			return nil, &ConfigError{Column: col, Key: keyBoundingBox, Message: fmt.Sprintf("bounding_box entries must be numbers, got %T", v)}
		}
		nums[i] = f
	}
	bb := &BoundingBox{XMin: nums[0], XMax: nums[1], YMin: nums[2], YMax: nums[3]}
	if bb.XMin > bb.XMax {
		return nil, &ConfigError{Column: col, Key: keyBoundingBox, Message: "xmin must not exceed xmax"}
	}
	if bb.YMin > bb.YMax {
		return nil, &ConfigError{Column: col, Key: keyBoundingBox, Message: "ymin must not exceed ymax"}
	}
	return bb, nil
}

func anySlice(col, key string, raw any) ([]any, error) {
	switch list := raw.(type) {
	case []any:
		out := make([]any, len(list))
		copy(out, list)
		return out, nil
	case []string:
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = v
		}
		return out, nil
	case []int:
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = v
		}
		return out, nil
	case []float64:
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = v
		}
		return out, nil
	}
	return nil, &ConfigError{Column: col, Key: key, Message: fmt.Sprintf("%s must be a list, got %T", key, raw)}
}

// mergeNulls unions the declared synonyms with DefaultNulls, keeping
// declared order first.
func mergeNulls(declared []any) []any {
	out := make([]any, 0, len(declared)+len(DefaultNulls))
	out = append(out, declared...)
	for _, d := range DefaultNulls {
		seen := false
		for _, have := range out {
			if value.Equal(have, d) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, d)
		}
	}
	return out
}
