package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/form"
	"github.com/ridoystarlord/formgen/schema"
	"gopkg.in/yaml.v3"
)

// DescriptorSuffix is appended to the project file name.
const DescriptorSuffix = ".formgen.yaml"

// Descriptor is the serialisable form of a compiled project.
type Descriptor struct {
	Settings  compiler.Settings `yaml:"settings" json:"settings"`
	Tables    []*schema.Table   `yaml:"tables" json:"tables"`
	Choices   []*choices.List   `yaml:"choices,omitempty" json:"choices,omitempty"`
	Relations []form.Relation   `yaml:"relations,omitempty" json:"relations,omitempty"`
	Layouts   []LayoutDoc       `yaml:"layouts" json:"layouts"`
}

type LayoutDoc struct {
	Table string    `yaml:"table" json:"table"`
	Tabs  []NodeDoc `yaml:"tabs" json:"tabs"`
}

// NodeDoc is one layout node. Element tells which of the other fields apply.
type NodeDoc struct {
	Element    string    `yaml:"element" json:"element"`
	Kind       string    `yaml:"kind,omitempty" json:"kind,omitempty"`
	Name       string    `yaml:"name,omitempty" json:"name,omitempty"`
	Label      string    `yaml:"label,omitempty" json:"label,omitempty"`
	ShowLabel  bool      `yaml:"show_label" json:"show_label"`
	Visibility string    `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Relation   string    `yaml:"relation,omitempty" json:"relation,omitempty"`
	Table      string    `yaml:"table,omitempty" json:"table,omitempty"`
	Text       string    `yaml:"text,omitempty" json:"text,omitempty"`
	Children   []NodeDoc `yaml:"children,omitempty" json:"children,omitempty"`
}

func NewDescriptor(p *compiler.Project) *Descriptor {
	d := &Descriptor{
		Settings:  p.Settings,
		Tables:    p.Tables,
		Choices:   p.Choices,
		Relations: p.Relations,
		Layouts:   make([]LayoutDoc, 0, len(p.Layouts)),
	}
	for _, l := range p.Layouts {
		ld := LayoutDoc{Table: l.Table}
		for _, tab := range l.Tabs {
			ld.Tabs = append(ld.Tabs, nodeDoc(tab))
		}
		d.Layouts = append(d.Layouts, ld)
	}
	return d
}

func nodeDoc(n form.Node) NodeDoc {
	doc := NodeDoc{Element: n.Element()}
	switch n := n.(type) {
	case *form.Container:
		doc.Kind = string(n.Kind)
		doc.Name = n.Name
		doc.Label = n.Label
		doc.ShowLabel = n.ShowLabel
		doc.Visibility = n.Visibility
		for _, c := range n.Children {
			doc.Children = append(doc.Children, nodeDoc(c))
		}
	case *form.FieldRef:
		doc.Name = n.Field
		doc.ShowLabel = n.ShowLabel
	case *form.RelationRef:
		doc.Name = n.Name
		doc.Label = n.Label
		doc.ShowLabel = n.ShowLabel
		doc.Relation = n.Relation
		doc.Table = n.Table
	case *form.TextNote:
		doc.Name = n.Name
		doc.Text = n.Text
	}
	return doc
}

// BaseName is the file name stem of everything written for p.
func BaseName(p *compiler.Project) string {
	if p.Settings.FileName == "" {
		return compiler.DefaultTitle
	}
	return p.Settings.FileName
}

// WriteProject saves the project descriptor as <dir>/<BaseName>.formgen.yaml.
func WriteProject(dir string, p *compiler.Project) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}
	data, err := yaml.Marshal(NewDescriptor(p))
	if err != nil {
		return "", fmt.Errorf("marshalling project: %w", err)
	}
	filename := filepath.Join(dir, BaseName(p)+DescriptorSuffix)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("writing project file: %w", err)
	}
	return filename, nil
}
