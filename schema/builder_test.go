package schema

import (
	"errors"
	"testing"

	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/survey"
	"github.com/ridoystarlord/formgen/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, records ...[]string) *survey.Survey {
	t.Helper()
	header := []string{"type", "name", "label", "calculation", "constraint", "constraint_message", "required"}
	s, err := survey.Parse(table.FromRecords("survey", append([][]string{header}, records...)), "label")
	require.NoError(t, err)
	return s
}

func TestBuild_Minimal(t *testing.T) {
	log := &diag.Log{}
	res, err := Build(parse(t, []string{"text", "comment", "Comment"}), log)
	require.NoError(t, err)

	require.Len(t, res.Tables, 1)
	root := res.Tables[0]
	assert.Equal(t, "survey", root.Name)
	assert.Equal(t, []string{"uuid", "comment"}, root.FieldNames())
	assert.Equal(t, "uuid()", root.Fields[0].Default.Expression)
	assert.Equal(t, "Comment", root.Field("comment").Alias)
	assert.Empty(t, root.ParentLink)
	assert.Equal(t, 0, log.Count(diag.Warning))
}

func TestBuild_Types(t *testing.T) {
	res, err := Build(parse(t,
		[]string{"integer", "age", "Age"},
		[]string{"range", "score", "Score"},
		[]string{"today", "day", ""},
		[]string{"start", "started", ""},
		[]string{"time", "at", ""},
		[]string{"acknowledge", "ok", "OK"},
		[]string{"select_one yes_no", "pick", "Pick"},
		[]string{"calculate", "total", "", "${age} * 2"},
	), nil)
	require.NoError(t, err)

	want := map[string]SemanticType{
		"age":     Integer,
		"score":   Decimal,
		"day":     Date,
		"started": DateTime,
		"at":      Time,
		"ok":      Boolean,
		"pick":    String,
		"total":   String,
	}
	for name, typ := range want {
		f, ok := res.Lookup("survey", name)
		require.True(t, ok, name)
		assert.Equal(t, typ, f.Type, name)
	}
	assert.Equal(t, "day", res.Tables[0].Field("day").Alias)

	calc, ok := res.Calc.Get("total")
	assert.True(t, ok)
	assert.Equal(t, "${age} * 2", calc)
}

func TestBuild_Constraints(t *testing.T) {
	log := &diag.Log{}
	res, err := Build(parse(t,
		[]string{"integer", "age", "Age", "", ". >= 18", "Too young", "yes"},
		[]string{"text", "name", "Name", "", "regex(., 'x'", "", "YES"},
		[]string{"text", "free", "Free", "", "", "ignored", "no"},
	), log)
	require.NoError(t, err)

	age := res.Tables[0].Field("age")
	assert.Equal(t, `"age" >= 18`, age.Constraint)
	assert.Equal(t, "Too young", age.ConstraintMessage)
	assert.True(t, age.NotNull)

	assert.True(t, res.Tables[0].Field("name").NotNull)

	free := res.Tables[0].Field("free")
	assert.Empty(t, free.Constraint)
	assert.Empty(t, free.ConstraintMessage)
	assert.False(t, free.NotNull)

	warnings := log.Filter(diag.Warning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Unsupported expression regex(., 'x'", warnings[0].Message)
}

func TestBuild_Repeats(t *testing.T) {
	res, err := Build(parse(t,
		[]string{"text", "household", "Household"},
		[]string{"begin repeat", "children", "Children"},
		[]string{"text", "child_name", "Name"},
		[]string{"begin_repeat", "toys", ""},
		[]string{"text", "toy", ""},
		[]string{"end_repeat", "", ""},
		[]string{"end repeat", "", ""},
		[]string{"integer", "total", ""},
	), nil)
	require.NoError(t, err)

	require.Len(t, res.Tables, 3)
	assert.Equal(t, []string{"uuid", "household", "total"}, res.Table("survey").FieldNames())

	children := res.Table("children")
	assert.Equal(t, "survey", children.Parent)
	assert.Equal(t, "uuid_parent", children.ParentLink)
	assert.Equal(t, []string{"uuid", "uuid_parent", "child_name"}, children.FieldNames())

	toys := res.Table("toys")
	assert.Equal(t, "children", toys.Parent)
	assert.Equal(t, []string{"uuid", "uuid_parent", "toy"}, toys.FieldNames())

	_, ok := res.Lookup("survey", "child_name")
	assert.False(t, ok)
}

func TestBuild_GeometryFirstMatchWins(t *testing.T) {
	res, err := Build(parse(t,
		[]string{"geotrace", "path", ""},
		[]string{"geopoint", "where", ""},
		[]string{"begin repeat", "plots", ""},
		[]string{"start-geoshape", "outline", ""},
		[]string{"geopoint", "center", ""},
		[]string{"end repeat", "", ""},
	), nil)
	require.NoError(t, err)

	assert.Equal(t, MultiLine, res.Table("survey").Geometry)
	assert.Equal(t, MultiPolygon, res.Table("plots").Geometry)
	assert.Nil(t, res.Table("survey").Field("where"))
}

func TestBuild_Diagnostics(t *testing.T) {
	log := &diag.Log{}
	res, err := Build(parse(t,
		[]string{"foobar", "x", ""},
		[]string{"rank", "order", ""},
		[]string{"deviceid", "device", ""},
		[]string{"barcode", "code1", ""},
		[]string{"barcode", "code2", ""},
		[]string{"image", "photo", ""},
		[]string{"background-audio", "rec", ""},
		[]string{"username", "user", ""},
		[]string{"text", "photo", "again"},
		[]string{"text", "uuid", ""},
		[]string{"text", "", "nameless"},
	), log)
	require.NoError(t, err)

	assert.Equal(t, []string{"uuid", "code1", "code2", "photo", "rec", "user"}, res.Tables[0].FieldNames())

	var warnings []string
	for _, d := range log.Filter(diag.Warning) {
		warnings = append(warnings, d.Message)
	}
	assert.Equal(t, []string{
		"Unsupported field type rank for table survey, skipping",
		"Unsupported metadata deviceid for table survey, skipping",
		"Unsupported type background-audio, using audio instead",
		"Duplicate field photo in table survey at row 10 (first at row 7), skipping",
		"Field uuid in table survey clashes with a generated key field, skipping",
		"Row 12 of type text has no name, skipping",
	}, warnings)

	infos := log.Filter(diag.Info)
	count := func(prefix string) int {
		n := 0
		for _, d := range infos {
			if len(d.Message) >= len(prefix) && d.Message[:len(prefix)] == prefix {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, count("Barcode"))
	assert.Equal(t, 1, count("Multimedia"))
	assert.Equal(t, 1, count("The metadata username"))
}

func TestBuild_ExtraEndRepeat(t *testing.T) {
	_, err := Build(parse(t,
		[]string{"text", "a", ""},
		[]string{"end repeat", "", ""},
	), nil)
	var se *survey.StructureError
	assert.True(t, errors.As(err, &se))
}

func TestBuild_ConstraintInlinesEarlierCalculation(t *testing.T) {
	res, err := Build(parse(t,
		[]string{"calculate", "limit", "", "10 + 5"},
		[]string{"integer", "n", "N", "", ". < ${limit}"},
	), nil)
	require.NoError(t, err)
	assert.Equal(t, `"n" < (10 + 5)`, res.Table("survey").Field("n").Constraint)
}

func TestModel(t *testing.T) {
	res, err := Build(parse(t,
		[]string{"begin repeat", "visits", ""},
		[]string{"date", "on", "", "", "", "", "yes"},
		[]string{"geopoint", "where", ""},
		[]string{"end repeat", "", ""},
	), nil)
	require.NoError(t, err)

	m := res.Table("visits").Model()
	assert.Equal(t, "visits", m.TableName)
	require.Len(t, m.Columns, 4)

	key := m.Column("uuid")
	assert.True(t, key.Primary)
	assert.Equal(t, "TEXT", key.Type)

	link := m.Column("uuid_parent")
	require.NotNil(t, link.ForeignKey)
	assert.Equal(t, "survey", link.ForeignKey.ReferencesTable)
	assert.Equal(t, "uuid", link.ForeignKey.ReferencesColumn)
	assert.True(t, link.NotNull)

	on := m.Column("on")
	assert.Equal(t, "DATE", on.Type)
	assert.True(t, on.NotNull)

	assert.Equal(t, "geometry(MultiPoint, 4326)", m.Column("geom").Type)
}

func TestTableClone(t *testing.T) {
	orig := newTable("survey", "")
	orig.Fields = append(orig.Fields, FieldSpec{Name: "a", Widget: &Widget{Type: "Range", Config: map[string]any{"Min": "0"}}})

	c := orig.Clone()
	c.Fields[0].Default.Expression = "changed"
	c.Fields[1].Widget.Config["Min"] = "5"

	assert.Equal(t, "uuid()", orig.Fields[0].Default.Expression)
	assert.Equal(t, "0", orig.Fields[1].Widget.Config["Min"])
}
