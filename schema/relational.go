package schema

import "fmt"

// Model is the relational rendering of a compiled table.
type Model struct {
	TableName string
	Columns   []Column
}

type Column struct {
	Name       string
	Type       string
	Primary    bool
	NotNull    bool
	Default    *string
	ForeignKey *ForeignKey
}

type ForeignKey struct {
	ReferencesTable  string
	ReferencesColumn string
	OnDelete         string // CASCADE, SET NULL, RESTRICT, etc.
}

// GeometryColumn holds the table geometry when it has one.
const GeometryColumn = "geom"

// SRID of stored geometries.
const SRID = 4326

var sqlTypes = map[SemanticType]string{
	Integer:  "BIGINT",
	Decimal:  "DOUBLE PRECISION",
	Date:     "DATE",
	Time:     "TIME",
	DateTime: "TIMESTAMP",
	Boolean:  "BOOLEAN",
	String:   "TEXT",
}

// SQLType maps a semantic type to its PostgreSQL column type.
func SQLType(t SemanticType) string {
	if s, ok := sqlTypes[t]; ok {
		return s
	}
	return "TEXT"
}

// Model renders t as a relational table. Attribute constraints and
// defaults are expressions for the form engine and are not carried over;
// only the key default and not-null hold in the database.
func (t *Table) Model() Model {
	m := Model{TableName: t.Name}
	for _, f := range t.Fields {
		c := Column{Name: f.Name, Type: SQLType(f.Type), NotNull: f.NotNull}
		switch f.Name {
		case KeyField:
			def := "gen_random_uuid()::text"
			c.Primary = true
			c.Default = &def
		case ParentLinkField:
			if t.Parent == "" {
				break
			}
			c.NotNull = true
			c.ForeignKey = &ForeignKey{
				ReferencesTable:  t.Parent,
				ReferencesColumn: KeyField,
				OnDelete:         "CASCADE",
			}
		}
		m.Columns = append(m.Columns, c)
	}
	if t.Geometry != NoGeometry {
		m.Columns = append(m.Columns, Column{
			Name: GeometryColumn,
			Type: fmt.Sprintf("geometry(%s, %d)", t.Geometry, SRID),
		})
	}
	return m
}

// Column returns the named column or nil.
func (m *Model) Column(name string) *Column {
	for i := range m.Columns {
		if m.Columns[i].Name == name {
			return &m.Columns[i]
		}
	}
	return nil
}
