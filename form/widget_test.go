package form

import (
	"testing"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/survey"
	"github.com/ridoystarlord/formgen/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(typ, label string) *survey.Row {
	return &survey.Row{Type: survey.ParseType(typ), Name: "f", Label: label}
}

func lists() *choices.Set {
	s := choices.Build(table.FromRecords("choices", [][]string{
		{"list_name", "name", "label::fr"},
		{"colors", "r", "Rouge"},
	}), "list_name", "label::fr")
	s.Add(choices.FromTable("towns.csv", table.FromRecords("towns.csv", [][]string{{"code", "town"}}), "name", "label::fr"))
	return s
}

func TestResolveWidget_Types(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"integer", WidgetRange},
		{"decimal", WidgetRange},
		{"range", WidgetRange},
		{"date", WidgetDateTime},
		{"image", WidgetExternalResource},
		{"acknowledge", WidgetCheckBox},
		{"text", WidgetTextEdit},
		{"barcode", WidgetTextEdit},
		{"calculate", WidgetTextEdit},
		{"today", WidgetHidden},
		{"hidden", WidgetHidden},
		{"email", WidgetHidden},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			w, warnings := ResolveWidget(row(tt.typ, "L"), WidgetEnv{})
			require.NotNil(t, w)
			assert.Equal(t, tt.want, w.Type)
			assert.Empty(t, warnings)
		})
	}

	w, _ := ResolveWidget(row("rank", "L"), WidgetEnv{})
	assert.Nil(t, w)
}

func TestResolveWidget_Range(t *testing.T) {
	r := row("range", "L")
	w, _ := ResolveWidget(r, WidgetEnv{})
	assert.Equal(t, map[string]any{"Min": 0, "Max": 10, "Step": 1, "Style": "Slider"}, w.Config)

	r.Parameters = "START=2 end= 20 step=5"
	w, _ = ResolveWidget(r, WidgetEnv{})
	assert.Equal(t, map[string]any{"Min": 2, "Max": 20, "Step": 5, "Style": "Slider"}, w.Config)

	w, _ = ResolveWidget(row("integer", "L"), WidgetEnv{})
	assert.Empty(t, w.Config)
}

func TestResolveWidget_DateFormats(t *testing.T) {
	formats := map[string]string{
		"date":     "yyyy-MM-dd",
		"time":     "HH:mm:ss",
		"datetime": "yyyy-MM-dd HH:mm:ss",
	}
	for typ, format := range formats {
		w, _ := ResolveWidget(row(typ, "L"), WidgetEnv{})
		assert.Equal(t, format, w.Config["display_format"], typ)
		assert.Equal(t, format, w.Config["field_format"], typ)
		assert.Equal(t, true, w.Config["allow_null"], typ)
	}
}

func TestResolveWidget_Viewers(t *testing.T) {
	viewers := map[string]int{
		"image":            ViewerImage,
		"audio":            ViewerAudio,
		"background-audio": ViewerAudio,
		"video":            ViewerVideo,
		"file":             ViewerNone,
	}
	for typ, v := range viewers {
		w, _ := ResolveWidget(row(typ, "L"), WidgetEnv{})
		assert.Equal(t, v, w.Config["DocumentViewer"], typ)
		assert.Equal(t, 1, w.Config["RelativeStorage"], typ)
	}
}

func TestResolveWidget_CalculationWithoutLabelIsHidden(t *testing.T) {
	r := row("integer", "")
	r.Calculation = "1 + 1"
	w, _ := ResolveWidget(r, WidgetEnv{})
	assert.Equal(t, WidgetHidden, w.Type)

	r.Label = "Shown"
	w, _ = ResolveWidget(r, WidgetEnv{})
	assert.Equal(t, WidgetRange, w.Type)
}

func TestResolveWidget_ValueRelation(t *testing.T) {
	env := WidgetEnv{Lists: lists(), LabelColumn: "label::fr"}

	t.Run("select one", func(t *testing.T) {
		w, warnings := ResolveWidget(row("select_one colors", "L"), env)
		assert.Empty(t, warnings)
		assert.Equal(t, WidgetValueRelation, w.Type)
		assert.Equal(t, map[string]any{
			"Layer":            "list_colors",
			"LayerName":        "colors",
			"Key":              "name",
			"Value":            "label::fr",
			"AllowNull":        false,
			"AllowMulti":       false,
			"FilterExpression": "",
		}, w.Config)
	})

	t.Run("select multiple with filter", func(t *testing.T) {
		r := row("select_multiple colors", "L")
		r.ChoiceFilter = "region = ${region}"
		w, warnings := ResolveWidget(r, env)
		assert.Empty(t, warnings)
		assert.Equal(t, true, w.Config["AllowMulti"])
		assert.Equal(t, `"name" != '' and (region = current_value('region'))`, w.Config["FilterExpression"])
	})

	t.Run("select multiple without filter", func(t *testing.T) {
		w, _ := ResolveWidget(row("select_multiple colors", "L"), env)
		assert.Equal(t, `"name" != ''`, w.Config["FilterExpression"])
	})

	t.Run("from file with parameters", func(t *testing.T) {
		r := row("select_one_from_file towns.csv", "L")
		r.Parameters = "value=code label=town"
		w, _ := ResolveWidget(r, env)
		assert.Equal(t, "list_towns.csv", w.Config["Layer"])
		assert.Equal(t, "code", w.Config["Key"])
		assert.Equal(t, "town", w.Config["Value"])
	})

	t.Run("from file defaults", func(t *testing.T) {
		w, _ := ResolveWidget(row("select_multiple_from_file towns.csv", "L"), env)
		assert.Equal(t, "name", w.Config["Key"])
		assert.Equal(t, "label::fr", w.Config["Value"])
	})

	t.Run("missing list", func(t *testing.T) {
		w, warnings := ResolveWidget(row("select_one sizes", "L"), env)
		assert.Equal(t, WidgetTextEdit, w.Type)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "sizes")
	})

	t.Run("missing external list", func(t *testing.T) {
		w, warnings := ResolveWidget(row("select_one_from_file gone.csv", "L"), env)
		assert.Equal(t, WidgetTextEdit, w.Type)
		assert.Empty(t, warnings)
	})

	t.Run("bad filter", func(t *testing.T) {
		r := row("select_one colors", "L")
		r.ChoiceFilter = "(("
		_, warnings := ResolveWidget(r, env)
		assert.Equal(t, []string{"Unsupported expression (("}, warnings)
	})
}
