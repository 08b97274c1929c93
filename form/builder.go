package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/expr"
	"github.com/ridoystarlord/formgen/markup"
	"github.com/ridoystarlord/formgen/schema"
	"github.com/ridoystarlord/formgen/survey"
)

// Renderer turns note markup into rich text.
type Renderer interface {
	Render(src string) string
}

type Settings struct {
	GroupsAsTabs bool
}

type Input struct {
	Schema      *schema.Result
	Choices     *choices.Set
	LabelColumn string
	Settings    Settings
	// Renderer is optional; notes pass through unchanged without one.
	Renderer Renderer
	Sink     diag.Sink
}

// FieldSetup is what the form pass decides for one compiled field.
type FieldSetup struct {
	Widget          *schema.Widget
	ReadOnly        bool
	Default         *schema.DefaultValue
	AliasExpression string
	LabelOnTop      bool
}

type Result struct {
	// Layouts in table creation order, the root table first.
	Layouts   []*Layout
	Relations []Relation
	// Setups maps table name to field name to setup.
	Setups map[string]map[string]FieldSetup
	// MaxImagePixels is the project-wide image size cap, 0 when unset.
	MaxImagePixels int
}

// Layout returns the layout of table or nil.
func (r *Result) Layout(table string) *Layout {
	for _, l := range r.Layouts {
		if l.Table == table {
			return l
		}
	}
	return nil
}

func (r *Result) Setup(table, field string) (FieldSetup, bool) {
	s, ok := r.Setups[table][field]
	return s, ok
}

// Metadata default expressions.
const (
	TodayDefault     = "format_date(now(), 'yyyy-MM-dd')"
	TimestampDefault = "format_date(now(), 'yyyy-MM-dd hh:mm:ss')"
	UsernameDefault  = "@cloud_username"
	EmailDefault     = "@cloud_useremail"
)

const lastSaved = "${last-saved"

// scope holds the open containers of one table's layout. Which table a
// row belongs to and its group depth come from survey.Walk.
type scope struct {
	layout *Layout
	stack  []*Container
}

func (s *scope) top() *Container { return s.stack[len(s.stack)-1] }

type builder struct {
	in     Input
	sink   diag.Sink
	res    *Result
	scopes map[string]*scope
	params bool
	// pixels is -1 once mixed defined and undefined caps disabled it
	pixels int
}

// Build re-walks the survey and produces the layout of every table.
func Build(s *survey.Survey, in Input) (*Result, error) {
	if in.Schema == nil {
		return nil, fmt.Errorf("form: schema result is required")
	}
	sink := in.Sink
	if sink == nil {
		sink = diag.Discard
	}
	b := &builder{
		in:     in,
		sink:   sink,
		res:    &Result{Setups: map[string]map[string]FieldSetup{}},
		scopes: map[string]*scope{},
		params: s.Has.Parameters,
	}
	b.open(survey.RootTable)

	err := survey.Walk(s.Rows, b.row)
	if err != nil {
		return nil, err
	}
	if b.pixels > 0 {
		b.res.MaxImagePixels = b.pixels
	}
	return b.res, nil
}

func (b *builder) open(table string) *scope {
	l := newLayout(table)
	b.res.Layouts = append(b.res.Layouts, l)
	sc := &scope{layout: l, stack: []*Container{l.Root()}}
	b.scopes[table] = sc
	return sc
}

func (b *builder) translate(src string, opts expr.Options) string {
	opts.Calc = b.in.Schema.Calc
	res := expr.Translate(src, opts)
	if res.SyntaxError {
		b.sink.Warning(fmt.Sprintf("Unsupported expression %s", src))
	}
	return res.Text
}

func (b *builder) row(st survey.Step) error {
	r := st.Row
	sc, ok := b.scopes[st.Table]
	if !ok {
		return fmt.Errorf("form: line %d: no layout for table %s", r.Line, st.Table)
	}
	kind := r.Type.Kind

	field, isField := b.in.Schema.Lookup(st.Table, r.Name)
	isField = isField && field.Line == r.Line && !kind.IsMarker() && kind != survey.Note

	relevant := ""
	if r.Relevant != "" {
		relevant = b.translate(r.Relevant, expr.Options{})
	}
	wrap := func(n Node) Node {
		if relevant == "" {
			return n
		}
		return &Container{
			Kind:       GroupBox,
			Name:       r.Name + " - relevant",
			Visibility: relevant,
			Children:   []Node{n},
		}
	}

	switch {
	case kind == survey.BeginRepeat:
		rel := newRelation(r.Name, st.Table, r.Name)
		b.res.Relations = append(b.res.Relations, rel)
		label := markup.StripTags(r.Label)
		sc.top().Add(wrap(&RelationRef{
			Name:      r.Name,
			Relation:  rel.ID,
			Table:     r.Name,
			Label:     label,
			ShowLabel: label != "",
		}))
		b.open(r.Name)
	case kind == survey.BeginGroup:
		label := markup.StripTags(r.Label)
		c := &Container{Name: r.Name, Label: label, Visibility: relevant}
		if b.in.Settings.GroupsAsTabs && st.Depth == 0 {
			c.Kind = Tab
			c.ShowLabel = true
			sc.layout.Tabs = append(sc.layout.Tabs, c)
		} else {
			c.Kind = GroupBox
			c.ShowLabel = label != ""
			sc.top().Add(c)
		}
		sc.stack = append(sc.stack, c)
	case kind == survey.EndGroup:
		if len(sc.stack) > 1 {
			sc.stack = sc.stack[:len(sc.stack)-1]
		}
	case kind == survey.Note:
		text := r.Label
		if b.in.Renderer != nil {
			text = b.in.Renderer.Render(text)
		}
		sc.top().Add(&TextNote{
			Name: r.Name,
			Text: expr.Translate(text, expr.Options{CurrentValue: true, Insert: true, Calc: b.in.Schema.Calc}).Text,
		})
	case isField:
		b.field(sc, r, wrap)
	case kind.IsGeometry():
	case kind == survey.Unknown:
		b.sink.Warning(fmt.Sprintf("Unsupported type %s, skipping", strings.ToLower(r.RawType)))
	}
	return nil
}

func (b *builder) field(sc *scope, r *survey.Row, wrap func(Node) Node) {
	kind := r.Type.Kind
	w, warnings := ResolveWidget(r, WidgetEnv{Lists: b.in.Choices, LabelColumn: b.in.LabelColumn, Calc: b.in.Schema.Calc})
	for _, msg := range warnings {
		b.sink.Warning(msg)
	}

	setup := FieldSetup{Widget: w}
	if w != nil {
		ref := &FieldRef{Field: r.Name, ShowLabel: true}
		if w.Type != WidgetHidden && expr.HasFieldRef(r.Label) {
			res := expr.LabelToExpr(r.Label)
			if res.SyntaxError {
				b.sink.Warning(fmt.Sprintf("Unsupported label expression %s", r.Label))
			}
			setup.AliasExpression = res.Text
		}

		switch {
		case kind == survey.Calculate || kind == survey.Hidden:
			ref.ShowLabel = w.Type != WidgetHidden
			setup.ReadOnly = true
		case kind.IsHostMetadata():
			ref.ShowLabel = false
			setup.ReadOnly = true
			setup.Default = metadataDefault(kind)
		default:
			setup.ReadOnly = r.IsReadOnly()
		}
		sc.top().Add(wrap(ref))
		setup.LabelOnTop = true
	}

	if r.Trigger != "" {
		b.sink.Warning(fmt.Sprintf("Unsupported trigger option for %s, ignored", r.Name))
	}

	if r.Calculation != "" {
		setup.Default = &schema.DefaultValue{
			Expression:    b.translate(r.Calculation, expr.Options{Self: r.Name}),
			ApplyOnUpdate: kind == survey.Calculate || kind == survey.Hidden,
		}
	} else if r.Default != "" && !strings.Contains(r.Default, lastSaved) {
		setup.Default = &schema.DefaultValue{Expression: DefaultLiteral(r.Default)}
	}

	if kind == survey.Image && b.params {
		b.imagePixels(r.Parameters)
	}

	t := sc.layout.Table
	if b.res.Setups[t] == nil {
		b.res.Setups[t] = map[string]FieldSetup{}
	}
	b.res.Setups[t][r.Name] = setup
}

func metadataDefault(k survey.Kind) *schema.DefaultValue {
	switch k {
	case survey.Today:
		return &schema.DefaultValue{Expression: TodayDefault}
	case survey.Start:
		return &schema.DefaultValue{Expression: TimestampDefault}
	case survey.End:
		return &schema.DefaultValue{Expression: TimestampDefault, ApplyOnUpdate: true}
	case survey.Username:
		return &schema.DefaultValue{Expression: UsernameDefault}
	case survey.Email:
		return &schema.DefaultValue{Expression: EmailDefault}
	}
	return nil
}

// DefaultLiteral renders a literal default value: unquoted when numeric
// (at most one decimal point), otherwise as a quoted string.
func DefaultLiteral(v string) string {
	digits := strings.Replace(v, ".", "", 1)
	numeric := digits != ""
	for _, c := range digits {
		if c < '0' || c > '9' {
			numeric = false
			break
		}
	}
	if numeric {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}

const (
	mixedPixelsMsg     = "Due to the presence of a mix of image fields with varying max-pixels values, the largest max-pixels value will be applied"
	undefinedPixelsMsg = "Due to the presence of a mix of image fields with defined and undefined max-pixels parameter, the parameter has been ignored"
)

func (b *builder) imagePixels(params string) {
	n := 0
	if m := maxPixels.FindStringSubmatch(params); m != nil {
		n, _ = strconv.Atoi(m[1])
	}
	switch {
	case n > 0 && b.pixels == 0:
		b.pixels = n
	case n > 0 && b.pixels > 0:
		if n != b.pixels {
			b.pixels = max(b.pixels, n)
			b.sink.Warning(mixedPixelsMsg)
		}
	case n > 0:
		b.sink.Warning(undefinedPixelsMsg)
	case b.pixels >= 0:
		if b.pixels > 0 {
			b.sink.Warning(undefinedPixelsMsg)
		}
		b.pixels = -1
	}
}
