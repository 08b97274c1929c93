// Package compiler turns survey, choices and settings tables into a
// compiled project: tables, choice lists, relations and form layouts.
package compiler

import (
	"errors"
	"fmt"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/form"
	"github.com/ridoystarlord/formgen/schema"
	"github.com/ridoystarlord/formgen/survey"
	"github.com/ridoystarlord/formgen/table"
)

// Source table names.
const (
	SurveyTable   = "survey"
	ChoicesTable  = "choices"
	SettingsTable = "settings"
)

// ListResolver loads the choice list referenced by a select_*_from_file type.
type ListResolver interface {
	ResolveList(ref, labelColumn string) (*choices.List, error)
}

type Options struct {
	// Language overrides the settings default_language.
	Language string
	// Title overrides the settings form_title.
	Title        string
	GroupsAsTabs bool
	Renderer     form.Renderer
	Resolver     ListResolver
	Sink         diag.Sink
}

type Project struct {
	Settings    Settings          `yaml:"settings" json:"settings"`
	Tables      []*schema.Table   `yaml:"tables" json:"tables"`
	Choices     []*choices.List   `yaml:"choices,omitempty" json:"choices,omitempty"`
	Relations   []form.Relation   `yaml:"relations,omitempty" json:"relations,omitempty"`
	Layouts     []*form.Layout    `yaml:"-" json:"-"`
	Diagnostics []diag.Diagnostic `yaml:"-" json:"diagnostics,omitempty"`
}

// Table returns the named table or nil.
func (p *Project) Table(name string) *schema.Table {
	for _, t := range p.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Layout returns the form layout of the named table or nil.
func (p *Project) Layout(name string) *form.Layout {
	for _, l := range p.Layouts {
		if l.Table == name {
			return l
		}
	}
	return nil
}

type compilation struct {
	opts Options
	log  *diag.Log
	sink diag.Sink
}

// Compile runs one compilation. Fatal problems are reported to the sink as
// errors and returned; everything else degrades with a warning.
func Compile(src table.Source, opts Options) (*Project, error) {
	c := &compilation{opts: opts, log: &diag.Log{}}
	c.sink = diag.Tee(c.log, opts.Sink)

	p, err := c.run(src)
	if err != nil {
		c.sink.Error(err.Error())
		return nil, err
	}
	p.Diagnostics = c.log.Entries
	return p, nil
}

func (c *compilation) run(src table.Source) (*Project, error) {
	surveyTable, err := src.ReadTable(SurveyTable)
	if err != nil {
		return nil, fmt.Errorf("read survey table: %w", err)
	}
	choicesTable, err := optional(src, ChoicesTable)
	if err != nil {
		return nil, err
	}
	settingsTable, err := optional(src, SettingsTable)
	if err != nil {
		return nil, err
	}

	settings := readSettings(settingsTable)
	if c.opts.Title != "" {
		settings.Title = c.opts.Title
	}
	if c.opts.Language != "" {
		settings.Language = c.opts.Language
	}

	label, fallback, err := LabelColumn(surveyTable.Columns, settings.Language)
	if err != nil {
		return nil, err
	}
	if fallback {
		if settings.Language != "" {
			c.sink.Info(fmt.Sprintf("label::%s column not found in the survey table, falling back to %s", settings.Language, label))
		} else {
			c.sink.Info(fmt.Sprintf("Picked %s as language for the conversion", label))
		}
	}
	settings.LabelColumn = label

	listColumn, choicesLabel := "", ""
	if choicesTable != nil {
		if listColumn = choices.ListColumn(choicesTable); listColumn == "" {
			return nil, &table.InvalidError{Table: ChoicesTable, Missing: []string{choices.ColListName}}
		}
		var i int
		if choicesLabel, i = choicesTable.Columns.LookupFold(label); i < 0 {
			return nil, &MissingColumnError{Table: ChoicesTable, Column: label, Language: settings.Language}
		}
	}

	s, err := survey.Parse(surveyTable, label)
	if err != nil {
		return nil, err
	}
	warnings, err := survey.Check(s.Rows)
	for _, w := range warnings {
		c.sink.Warning(w)
	}
	if err != nil {
		return nil, err
	}

	settings.FileName = FileName(settings.Title)
	c.sink.Info(fmt.Sprintf("Creating survey %s (id: %s)", settings.Title, settings.FormID))

	lists := choices.Build(choicesTable, listColumn, choicesLabel)
	c.resolveExternal(s, lists, label)

	sch, err := schema.Build(s, c.sink)
	if err != nil {
		return nil, err
	}
	fr, err := form.Build(s, form.Input{
		Schema:      sch,
		Choices:     lists,
		LabelColumn: label,
		Settings:    form.Settings{GroupsAsTabs: c.opts.GroupsAsTabs},
		Renderer:    c.opts.Renderer,
		Sink:        c.sink,
	})
	if err != nil {
		return nil, err
	}
	settings.MaxImagePixels = fr.MaxImagePixels

	return &Project{
		Settings:  settings,
		Tables:    merge(sch.Tables, fr),
		Choices:   lists.Lists(),
		Relations: fr.Relations,
		Layouts:   fr.Layouts,
	}, nil
}

func optional(src table.Source, name string) (*table.Table, error) {
	t, err := src.ReadTable(name)
	if errors.Is(err, table.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s table: %w", name, err)
	}
	return t, nil
}

func (c *compilation) resolveExternal(s *survey.Survey, lists *choices.Set, label string) {
	for i := range s.Rows {
		r := &s.Rows[i]
		if !r.Type.Kind.IsFromFile() {
			continue
		}
		ref := r.Type.ListRef()
		if _, ok := lists.Get(ref); ok && ref != "" {
			continue
		}
		if ref == "" || c.opts.Resolver == nil {
			c.sink.Warning(fmt.Sprintf("Select from file could not be converted, %s turned into text field", r.Name))
			continue
		}
		l, err := c.opts.Resolver.ResolveList(ref, label)
		if err != nil {
			c.sink.Warning(fmt.Sprintf("Select from file could not be converted, %s turned into text field: %v", r.Name, err))
			continue
		}
		lists.Add(l)
	}
}

// merge copies the schema tables and applies the form pass setups to them.
func merge(tables []*schema.Table, fr *form.Result) []*schema.Table {
	out := make([]*schema.Table, 0, len(tables))
	for _, t := range tables {
		c := t.Clone()
		for i := range c.Fields {
			f := &c.Fields[i]
			setup, ok := fr.Setup(c.Name, f.Name)
			if !ok {
				continue
			}
			f.Widget = setup.Widget
			f.ReadOnly = setup.ReadOnly
			f.AliasExpression = setup.AliasExpression
			f.LabelOnTop = setup.LabelOnTop
			if setup.Default != nil {
				d := *setup.Default
				f.Default = &d
			}
		}
		out = append(out, c)
	}
	return out
}
