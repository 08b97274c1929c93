package schema

import (
	"fmt"

	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/expr"
	"github.com/ridoystarlord/formgen/markup"
	"github.com/ridoystarlord/formgen/survey"
)

// Result is the output of the schema pass.
type Result struct {
	// Tables in creation order, the root table first.
	Tables []*Table
	// Calc holds every calculate/hidden calculation seen, read-only.
	Calc *expr.CalcMap

	byName map[string]*Table
}

// Table returns the named table or nil.
func (r *Result) Table(name string) *Table {
	return r.byName[name]
}

// Lookup returns the field compiled for name in table.
func (r *Result) Lookup(table, name string) (*FieldSpec, bool) {
	t := r.byName[table]
	if t == nil {
		return nil, false
	}
	f := t.Field(name)
	return f, f != nil
}

var semanticTypes = map[survey.Kind]SemanticType{
	survey.Integer:                Integer,
	survey.Decimal:                Decimal,
	survey.Range:                  Decimal,
	survey.Date:                   Date,
	survey.Today:                  Date,
	survey.Time:                   Time,
	survey.DateTime:               DateTime,
	survey.Start:                  DateTime,
	survey.End:                    DateTime,
	survey.Acknowledge:            Boolean,
	survey.Text:                   String,
	survey.Barcode:                String,
	survey.Image:                  String,
	survey.Audio:                  String,
	survey.BackgroundAudio:        String,
	survey.Video:                  String,
	survey.File:                   String,
	survey.SelectOne:              String,
	survey.SelectOneFromFile:      String,
	survey.SelectMultiple:         String,
	survey.SelectMultipleFromFile: String,
	survey.Username:               String,
	survey.Email:                  String,
	survey.Calculate:              String,
	survey.Hidden:                 String,
}

var geometryKinds = map[survey.Kind]GeometryKind{
	survey.Geopoint:      MultiPoint,
	survey.StartGeopoint: MultiPoint,
	survey.Geotrace:      MultiLine,
	survey.StartGeotrace: MultiLine,
	survey.Geoshape:      MultiPolygon,
	survey.StartGeoshape: MultiPolygon,
}

// TypeOf returns the storage type of a survey kind.
func TypeOf(k survey.Kind) (SemanticType, bool) {
	t, ok := semanticTypes[k]
	return t, ok
}

// GeometryOf returns the geometry a survey kind gives its table.
func GeometryOf(k survey.Kind) GeometryKind {
	return geometryKinds[k]
}

type builder struct {
	sink diag.Sink
	once diag.Once
	calc *expr.CalcMap
	res  *Result
}

// Build compiles the survey rows into tables in one scope-tracking pass.
// Repeat nesting must already be valid; an unbalanced end repeat still
// returns a *survey.StructureError.
func Build(s *survey.Survey, sink diag.Sink) (*Result, error) {
	if sink == nil {
		sink = diag.Discard
	}
	b := &builder{
		sink: sink,
		once: diag.Once{Sink: sink},
		calc: expr.NewCalcMap(),
		res:  &Result{byName: map[string]*Table{}},
	}
	sink.Info("Creating main survey table")
	b.add(newTable(survey.RootTable, ""))

	err := survey.Walk(s.Rows, func(st survey.Step) error {
		r := st.Row
		t := b.res.byName[st.Table]
		switch k := r.Type.Kind; {
		case k == survey.BeginRepeat:
			sink.Info(fmt.Sprintf("Creating child survey table %s", r.Name))
			b.add(newTable(r.Name, st.Table))
		case k.IsMarker(), k == survey.Note, k == survey.Unknown:
		case k.IsGeometry():
			if t.Geometry == NoGeometry {
				t.Geometry = geometryKinds[k]
			}
		default:
			b.field(t, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.res.Calc = b.calc.Frozen()
	return b.res, nil
}

func (b *builder) add(t *Table) {
	b.res.Tables = append(b.res.Tables, t)
	b.res.byName[t.Name] = t
}

func (b *builder) field(t *Table, r *survey.Row) {
	kind := r.Type.Kind
	typ, ok := semanticTypes[kind]
	if !ok {
		if kind.IsMetadata() {
			b.sink.Warning(fmt.Sprintf("Unsupported metadata %s for table %s, skipping", r.Type.Token, t.Name))
		} else {
			b.sink.Warning(fmt.Sprintf("Unsupported field type %s for table %s, skipping", r.Type.Token, t.Name))
		}
		return
	}
	if r.Name == "" {
		b.sink.Warning(fmt.Sprintf("Row %d of type %s has no name, skipping", r.Line, r.Type.Token))
		return
	}
	if prev := t.Field(r.Name); prev != nil {
		if prev.Line == 0 {
			b.sink.Warning(fmt.Sprintf("Field %s in table %s clashes with a generated key field, skipping", r.Name, t.Name))
		} else {
			b.sink.Warning(fmt.Sprintf("Duplicate field %s in table %s at row %d (first at row %d), skipping", r.Name, t.Name, r.Line, prev.Line))
		}
		return
	}

	b.hostInfo(r)

	if (kind == survey.Calculate || kind == survey.Hidden) && r.Calculation != "" {
		b.calc.Set(r.Name, r.Calculation)
	}

	alias := markup.StripTags(r.Label)
	if alias == "" {
		alias = r.Name
	}
	f := FieldSpec{
		Name:    r.Name,
		Type:    typ,
		Alias:   alias,
		NotNull: r.IsRequired(),
		Line:    r.Line,
	}
	if r.Constraint != "" {
		res := expr.Translate(r.Constraint, expr.Options{DotField: r.Name, Self: r.Name, Calc: b.calc})
		if res.SyntaxError {
			b.sink.Warning(fmt.Sprintf("Unsupported expression %s", r.Constraint))
		}
		f.Constraint = res.Text
		f.ConstraintMessage = r.ConstraintMessage
	}
	t.Fields = append(t.Fields, f)
}

func (b *builder) hostInfo(r *survey.Row) {
	switch k := r.Type.Kind; {
	case k == survey.Barcode:
		b.once.Info("barcode", "Barcode functionality is only available on devices with a camera scanner; elsewhere it is a simple text field")
	case k == survey.BackgroundAudio:
		b.sink.Warning("Unsupported type background-audio, using audio instead")
		fallthrough
	case k == survey.Image, k == survey.Audio, k == survey.Video:
		b.once.Info("multimedia", "Multimedia content can be captured on devices with cameras and microphones; on desktop, pre-existing files can be selected")
	case k == survey.Username, k == survey.Email:
		b.sink.Info(fmt.Sprintf("The metadata %s is only available through a cloud account; it will return an empty value otherwise", k))
	}
}
