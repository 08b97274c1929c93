package form

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/expr"
	"github.com/ridoystarlord/formgen/schema"
	"github.com/ridoystarlord/formgen/survey"
)

// Widget types understood by the form host.
const (
	WidgetRange            = "Range"
	WidgetDateTime         = "DateTime"
	WidgetExternalResource = "ExternalResource"
	WidgetCheckBox         = "CheckBox"
	WidgetTextEdit         = "TextEdit"
	WidgetValueRelation    = "ValueRelation"
	WidgetHidden           = "Hidden"
)

// Document viewer kinds of the ExternalResource widget.
const (
	ViewerNone  = 0
	ViewerImage = 1
	ViewerAudio = 3
	ViewerVideo = 4
)

var (
	rangeStart = regexp.MustCompile(`(?i)start=\s*([0-9]+)`)
	rangeEnd   = regexp.MustCompile(`(?i)end=\s*([0-9]+)`)
	rangeStep  = regexp.MustCompile(`(?i)step=\s*([0-9]+)`)
	valueParam = regexp.MustCompile(`value\s*=\s*(\S*)`)
	labelParam = regexp.MustCompile(`label\s*=\s*(\S*)`)
	maxPixels  = regexp.MustCompile(`(?i)max-pixels=\s*([0-9]+)`)
)

// WidgetEnv is what widget resolution reads besides the row.
type WidgetEnv struct {
	Lists *choices.Set
	// LabelColumn is the survey label column, the default value column of
	// lists loaded from files.
	LabelColumn string
	Calc        *expr.CalcMap
}

// ResolveWidget returns the editor widget of a field row and any warnings
// raised while building it. It returns nil for kinds without a widget.
func ResolveWidget(r *survey.Row, env WidgetEnv) (*schema.Widget, []string) {
	var (
		w        *schema.Widget
		warnings []string
	)
	switch k := r.Type.Kind; k {
	case survey.Integer, survey.Decimal:
		w = widget(WidgetRange, nil)
	case survey.Range:
		w = widget(WidgetRange, map[string]any{
			"Min":   param(rangeStart, r.Parameters, 0),
			"Max":   param(rangeEnd, r.Parameters, 10),
			"Step":  param(rangeStep, r.Parameters, 1),
			"Style": "Slider",
		})
	case survey.Date, survey.Time, survey.DateTime:
		format := "yyyy-MM-dd"
		if k == survey.Time {
			format = "HH:mm:ss"
		} else if k == survey.DateTime {
			format = "yyyy-MM-dd HH:mm:ss"
		}
		w = widget(WidgetDateTime, map[string]any{
			"field_format_overwrite": true,
			"display_format":         format,
			"field_format":           format,
			"allow_null":             true,
			"calendar_popup":         true,
		})
	case survey.Image, survey.Audio, survey.BackgroundAudio, survey.Video, survey.File:
		w = widget(WidgetExternalResource, map[string]any{
			"DocumentViewer":   viewer(k),
			"FileWidget":       true,
			"FileWidgetButton": true,
			"RelativeStorage":  1,
		})
	case survey.Acknowledge:
		w = widget(WidgetCheckBox, nil)
	case survey.Text, survey.Barcode, survey.Calculate:
		w = widget(WidgetTextEdit, nil)
	case survey.SelectOne, survey.SelectMultiple, survey.SelectOneFromFile, survey.SelectMultipleFromFile:
		w, warnings = valueRelation(r, env)
	case survey.Today, survey.Start, survey.End, survey.Username, survey.Email, survey.Hidden:
		w = widget(WidgetHidden, nil)
	}
	if w != nil && r.Calculation != "" && r.Label == "" {
		w = widget(WidgetHidden, nil)
	}
	return w, warnings
}

func widget(typ string, config map[string]any) *schema.Widget {
	if config == nil {
		config = map[string]any{}
	}
	return &schema.Widget{Type: typ, Config: config}
}

func param(re *regexp.Regexp, params string, def int) int {
	m := re.FindStringSubmatch(params)
	if m == nil {
		return def
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return def
	}
	return n
}

func viewer(k survey.Kind) int {
	switch k {
	case survey.Image:
		return ViewerImage
	case survey.Audio, survey.BackgroundAudio:
		return ViewerAudio
	case survey.Video:
		return ViewerVideo
	}
	return ViewerNone
}

func valueRelation(r *survey.Row, env WidgetEnv) (*schema.Widget, []string) {
	ref := r.Type.ListRef()
	if ref == "" {
		return widget(WidgetTextEdit, nil), []string{fmt.Sprintf("Select field %s names no choice list, using a text field", r.Name)}
	}
	list, ok := env.Lists.Get(ref)
	if !ok {
		if r.Type.Kind.IsFromFile() {
			// the resolver already reported it
			return widget(WidgetTextEdit, nil), nil
		}
		return widget(WidgetTextEdit, nil), []string{fmt.Sprintf("Choice list %s of %s not found, using a text field", ref, r.Name)}
	}

	key, value := choices.ColName, list.LabelColumn
	if r.Type.Kind.IsFromFile() {
		value = env.LabelColumn
		if m := valueParam.FindStringSubmatch(r.Parameters); m != nil {
			key = m[1]
		}
		if m := labelParam.FindStringSubmatch(r.Parameters); m != nil {
			value = m[1]
		}
	}

	var warnings []string
	filter := ""
	if r.ChoiceFilter != "" {
		res := expr.Translate(r.ChoiceFilter, expr.Options{CurrentValue: true, Calc: env.Calc})
		if res.SyntaxError {
			warnings = append(warnings, fmt.Sprintf("Unsupported expression %s", r.ChoiceFilter))
		}
		filter = res.Text
	}
	multi := r.Type.Kind.IsMultiSelect()
	if multi {
		guard := `"` + key + `" != ''`
		if filter != "" {
			filter = guard + " and (" + filter + ")"
		} else {
			filter = guard
		}
	}
	return widget(WidgetValueRelation, map[string]any{
		"Layer":            list.TableName(),
		"LayerName":        ref,
		"Key":              key,
		"Value":            value,
		"AllowNull":        false,
		"AllowMulti":       multi,
		"FilterExpression": filter,
	}), warnings
}
