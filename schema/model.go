package schema

// SemanticType is the storage type of a compiled field.
type SemanticType string

const (
	String   SemanticType = "string"
	Integer  SemanticType = "integer"
	Decimal  SemanticType = "decimal"
	Date     SemanticType = "date"
	Time     SemanticType = "time"
	DateTime SemanticType = "datetime"
	Boolean  SemanticType = "boolean"
)

// GeometryKind is the multi-part geometry of a table, if any.
type GeometryKind string

const (
	NoGeometry   GeometryKind = ""
	MultiPoint   GeometryKind = "MultiPoint"
	MultiLine    GeometryKind = "MultiLineString"
	MultiPolygon GeometryKind = "MultiPolygon"
)

// Structural fields carried by every table.
const (
	KeyField        = "uuid"
	ParentLinkField = "uuid_parent"
	KeyDefault      = "uuid()"
)

type DefaultValue struct {
	Expression    string `yaml:"expression" json:"expression"`
	ApplyOnUpdate bool   `yaml:"apply_on_update,omitempty" json:"apply_on_update,omitempty"`
}

// Widget is an editor widget setup. Config is opaque to the compiler.
type Widget struct {
	Type   string         `yaml:"type" json:"type"`
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

type FieldSpec struct {
	Name              string        `yaml:"name" json:"name"`
	Type              SemanticType  `yaml:"type" json:"type"`
	Alias             string        `yaml:"alias,omitempty" json:"alias,omitempty"`
	AliasExpression   string        `yaml:"alias_expression,omitempty" json:"alias_expression,omitempty"`
	Constraint        string        `yaml:"constraint,omitempty" json:"constraint,omitempty"`
	ConstraintMessage string        `yaml:"constraint_message,omitempty" json:"constraint_message,omitempty"`
	NotNull           bool          `yaml:"not_null,omitempty" json:"not_null,omitempty"`
	Default           *DefaultValue `yaml:"default,omitempty" json:"default,omitempty"`
	ReadOnly          bool          `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	LabelOnTop        bool          `yaml:"label_on_top,omitempty" json:"label_on_top,omitempty"`
	Widget            *Widget       `yaml:"widget,omitempty" json:"widget,omitempty"`

	// Line is the survey row the field was compiled from, 0 for structural fields.
	Line int `yaml:"-" json:"-"`
}

// Structural reports whether f is a generated key field.
func (f *FieldSpec) Structural() bool {
	return f.Line == 0 && (f.Name == KeyField || f.Name == ParentLinkField)
}

type Table struct {
	Name string `yaml:"name" json:"name"`
	// Parent is empty for the root table.
	Parent     string       `yaml:"parent,omitempty" json:"parent,omitempty"`
	ParentLink string       `yaml:"parent_link,omitempty" json:"parent_link,omitempty"`
	Geometry   GeometryKind `yaml:"geometry,omitempty" json:"geometry,omitempty"`
	Fields     []FieldSpec  `yaml:"fields" json:"fields"`
}

func newTable(name, parent string) *Table {
	t := &Table{Name: name, Parent: parent}
	t.Fields = append(t.Fields, FieldSpec{
		Name:    KeyField,
		Type:    String,
		Default: &DefaultValue{Expression: KeyDefault},
	})
	if parent != "" {
		t.ParentLink = ParentLinkField
		t.Fields = append(t.Fields, FieldSpec{Name: ParentLinkField, Type: String})
	}
	return t
}

// Field returns the named field or nil.
func (t *Table) Field(name string) *FieldSpec {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// FieldNames returns field names in declaration order.
func (t *Table) FieldNames() []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Name
	}
	return out
}

// Clone returns a deep copy of t, widget configs included.
func (t *Table) Clone() *Table {
	c := *t
	c.Fields = make([]FieldSpec, len(t.Fields))
	for i, f := range t.Fields {
		if f.Default != nil {
			d := *f.Default
			f.Default = &d
		}
		if f.Widget != nil {
			w := Widget{Type: f.Widget.Type}
			if f.Widget.Config != nil {
				w.Config = make(map[string]any, len(f.Widget.Config))
				for k, v := range f.Widget.Config {
					w.Config[k] = v
				}
			}
			f.Widget = &w
		}
		c.Fields[i] = f
	}
	return &c
}
