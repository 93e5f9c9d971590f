package schema

import "fmt"

// Builder assembles a Schema fluently. Validation matching ParseMap
// runs at Build time, so a misconfigured builder fails the same way a
// malformed raw schema does.
//
//	s, err := schema.New().
//		Column("status").Accepted("open", "closed").Default("open").
//		Column("count").Range(0, 100).Nulls(-1).
//		Geometry("geometry").Sliver(1, 3857).BoundingBox(-180, 180, -90, 90).
//		Build()
type Builder struct {
	order []string
	raw   map[string]map[string]any
	err   error
}

type columnStep struct {
	b    *Builder
	name string
}

type geometryStep struct {
	b    *Builder
	name string
}

// New creates an empty schema builder.
func New() *Builder {
	return &Builder{raw: map[string]map[string]any{}}
}

// Column starts an attribute rule for the named column.
func (b *Builder) Column(name string) *columnStep {
	b.open(name)
	return &columnStep{b: b, name: name}
}

// Geometry starts a geometry rule for the named column.
func (b *Builder) Geometry(name string) *geometryStep {
	b.open(name)
	return &geometryStep{b: b, name: name}
}

func (b *Builder) open(name string) {
	if _, dup := b.raw[name]; dup {
		if b.err == nil {
			b.err = &ConfigError{Column: name, Message: "duplicate column rule"}
		}
		return
	}
	b.order = append(b.order, name)
	b.raw[name] = map[string]any{}
}

func (b *Builder) set(name, key string, v any) {
	if m, ok := b.raw[name]; ok {
		m[key] = v
	}
}

// Accepted sets the allowed value set.
func (c *columnStep) Accepted(values ...any) *columnStep {
	c.b.set(c.name, keyAccepted, values)
	return c
}

// Range sets inclusive bounds; pass nil for an unbounded side.
func (c *columnStep) Range(min, max any) *columnStep {
	c.b.set(c.name, keyRange, []any{min, max})
	return c
}

// Default sets the substitution value applied on violation.
func (c *columnStep) Default(v any) *columnStep {
	c.b.set(c.name, keyDefault, v)
	return c
}

// Nulls declares raw values to treat as missing.
func (c *columnStep) Nulls(values ...any) *columnStep {
	c.b.set(c.name, keyNulls, values)
	return c
}

func (c *columnStep) Column(name string) *columnStep     { return c.b.Column(name) }
func (c *columnStep) Geometry(name string) *geometryStep { return c.b.Geometry(name) }
func (c *columnStep) Build() (*Schema, error)            { return c.b.Build() }
func (c *columnStep) MustBuild() *Schema                 { return c.b.MustBuild() }

// Sliver configures minimum-size detection under the given projection.
func (g *geometryStep) Sliver(threshold float64, epsg int) *geometryStep {
	g.b.set(g.name, keySliver, map[string]any{
		keySliverThreshold: threshold,
		keySliverEPSG:      epsg,
	})
	return g
}

// BoundingBox configures strict containment in native coordinates.
func (g *geometryStep) BoundingBox(xmin, xmax, ymin, ymax float64) *geometryStep {
	g.b.set(g.name, keyBoundingBox, []any{xmin, xmax, ymin, ymax})
	return g
}

func (g *geometryStep) Column(name string) *columnStep     { return g.b.Column(name) }
func (g *geometryStep) Geometry(name string) *geometryStep { return g.b.Geometry(name) }
func (g *geometryStep) Build() (*Schema, error)            { return g.b.Build() }
func (g *geometryStep) MustBuild() *Schema                 { return g.b.MustBuild() }

// Build validates the accumulated rules and returns the Schema,
// preserving declaration order.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := &Schema{}
	for _, col := range b.order {
		r, err := parseRule(col, b.raw[col])
		if err != nil {
			return nil, err
		}
		if err := s.add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustBuild is Build that panics on error, for schemas declared in
// code.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("schema: MustBuild: %v", err))
	}
	return s
}
