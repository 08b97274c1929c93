package survey

import (
	"errors"
	"testing"

	"github.com/ridoystarlord/formgen/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		raw   string
		kind  Kind
		token string
		args  []string
	}{
		{"text", Text, "text", nil},
		{"  Integer ", Integer, "integer", nil},
		{"select_one yes_no", SelectOne, "select_one", []string{"yes_no"}},
		{"select_one_from_file my list.csv", SelectOneFromFile, "select_one_from_file", []string{"my", "list.csv"}},
		{"begin repeat", BeginRepeat, "begin repeat", nil},
		{"Begin  Group", BeginGroup, "begin group", nil},
		{"end_repeat", EndRepeat, "end_repeat", nil},
		{"end", End, "end", nil},
		{"start-geopoint", StartGeopoint, "start-geopoint", nil},
		{"foobar", Unknown, "foobar", nil},
		{"", Unknown, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseType(tt.raw)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.token, got.Token)
			assert.Equal(t, tt.args, got.Args)
		})
	}
}

func TestKindCategories(t *testing.T) {
	assert.True(t, Rank.IsFieldType())
	assert.True(t, Hidden.IsFieldType())
	assert.False(t, Start.IsFieldType())
	assert.True(t, Audit.IsMetadata())
	assert.True(t, StartGeoshape.IsGeometry())
	assert.True(t, EndGroup.IsMarker())
	assert.False(t, Note.IsMarker())
	assert.True(t, SelectMultipleFromFile.IsMultiSelect())
	assert.True(t, BackgroundAudio.IsMedia())
	assert.Equal(t, "my list.csv", ParseType("select_one_from_file my list.csv").ListRef())
	assert.Equal(t, "yes_no", ParseType("select_multiple yes_no extra").ListRef())
}

func TestParse(t *testing.T) {
	tbl := table.FromRecords("survey", [][]string{
		{"type", "name", "label::English (en)", "required", "parameters"},
		{"text", "comment", "Comment", "YES", ""},
		{"", "ignored", "", "", ""},
		{"range", "score", "Score", "", "start=1 end=5"},
	})

	s, err := Parse(tbl, "label::English (en)")
	require.NoError(t, err)
	require.Len(t, s.Rows, 2)
	assert.True(t, s.Rows[0].IsRequired())
	assert.Equal(t, "Comment", s.Rows[0].Label)
	assert.Equal(t, "start=1 end=5", s.Rows[1].Parameters)
	assert.True(t, s.Has.Parameters)
	assert.False(t, s.Has.Calculation)
	assert.Equal(t, 4, s.Rows[1].Line)
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := Parse(table.FromRecords("survey", [][]string{{"type", "label"}}), "label")
	var invalid *table.InvalidError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"name"}, invalid.Missing)
}

func rows(types ...string) []Row {
	out := make([]Row, 0, len(types))
	for i, spec := range types {
		typ, name := spec, ""
		for j := 0; j < len(spec); j++ {
			if spec[j] == ':' {
				typ, name = spec[:j], spec[j+1:]
				break
			}
		}
		out = append(out, Row{Line: i + 2, Type: ParseType(typ), Name: name})
	}
	return out
}

func TestCheck_Balanced(t *testing.T) {
	warnings, err := Check(rows(
		"text:a",
		"begin repeat:kids",
		"begin group:g",
		"text:b",
		"end group",
		"begin_repeat:toys",
		"end_repeat",
		"end repeat",
	))
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCheck_Structural(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		line int
		msg  string
	}{
		{"extra end repeat", rows("text:a", "end repeat"), 3, "without matching"},
		{"unclosed repeat", rows("begin repeat:kids", "text:a"), 2, "never closed"},
		{"empty name", rows("begin repeat"), 2, "without a name"},
		{"duplicate", rows("begin repeat:k", "end repeat", "begin repeat:k", "end repeat"), 4, "already declared"},
		{"root clash", rows("begin repeat:survey", "end repeat"), 2, "root table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check(tt.rows)
			var se *StructureError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.line, se.Line)
			assert.Contains(t, se.Msg, tt.msg)
		})
	}
}

func TestCheck_GroupWarnings(t *testing.T) {
	warnings, err := Check(rows("end group", "begin repeat:r", "begin group", "end repeat", "begin group"))
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "no matching begin group")
	assert.Contains(t, warnings[1], "left open in repeat r")
	assert.Contains(t, warnings[2], "end of the survey")
}

func TestWalk_Scopes(t *testing.T) {
	var got []Step
	err := Walk(rows(
		"text:a",
		"begin repeat:kids",
		"begin group:g",
		"text:b",
		"end group",
		"begin repeat:toys",
		"text:c",
		"end repeat",
		"end repeat",
		"text:d",
	), func(s Step) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)

	tables := make([]string, len(got))
	for i, s := range got {
		tables[i] = s.Table
	}
	assert.Equal(t, []string{"survey", "survey", "kids", "kids", "kids", "kids", "toys", "toys", "kids", "survey"}, tables)
	assert.Equal(t, 1, got[3].Depth)
	assert.Equal(t, 0, got[5].Depth)
	assert.Equal(t, []string{"kids", "toys"}, got[6].Scope)
	assert.Empty(t, got[9].Scope)
}

func TestWalk_ExtraEndRepeat(t *testing.T) {
	visited := 0
	err := Walk(rows("text:a", "end repeat", "text:b"), func(Step) error {
		visited++
		return nil
	})
	var se *StructureError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, visited)
}

func TestWalk_CallbackError(t *testing.T) {
	boom := errors.New("boom")
	err := Walk(rows("text:a", "text:b"), func(Step) error { return boom })
	assert.ErrorIs(t, err, boom)
}
