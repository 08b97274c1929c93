// Package form builds the edit-form layout of every compiled table.
package form

import "github.com/ridoystarlord/formgen/schema"

type ContainerKind string

const (
	Tab      ContainerKind = "tab"
	GroupBox ContainerKind = "groupbox"
)

// Node is an element of a form layout tree.
type Node interface {
	Element() string
}

type Container struct {
	Kind      ContainerKind
	Name      string
	Label     string
	ShowLabel bool
	// Visibility is a translated expression; empty means always visible.
	Visibility string
	Children   []Node
}

func (*Container) Element() string { return "container" }

func (c *Container) Add(n Node) { c.Children = append(c.Children, n) }

type FieldRef struct {
	Field     string
	ShowLabel bool
}

func (*FieldRef) Element() string { return "field" }

type RelationRef struct {
	Name      string
	Relation  string
	Table     string
	Label     string
	ShowLabel bool
}

func (*RelationRef) Element() string { return "relation" }

type TextNote struct {
	Name string
	Text string
}

func (*TextNote) Element() string { return "text" }

// RootTab names the first tab of every layout.
const RootTab = "Survey"

// Layout is the form of one table. Tabs[0] is the root tab; groups rendered
// as tabs follow it.
type Layout struct {
	Table string
	Tabs  []*Container
}

func newLayout(table string) *Layout {
	return &Layout{Table: table, Tabs: []*Container{{Kind: Tab, Name: RootTab, Label: RootTab, ShowLabel: true}}}
}

// Root returns the root tab.
func (l *Layout) Root() *Container { return l.Tabs[0] }

// Relation links a repeat table to its parent.
type Relation struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	ParentTable     string `yaml:"parent_table" json:"parent_table"`
	ChildTable      string `yaml:"child_table" json:"child_table"`
	ParentKey       string `yaml:"parent_key" json:"parent_key"`
	ChildForeignKey string `yaml:"child_foreign_key" json:"child_foreign_key"`
}

func newRelation(name, parent, child string) Relation {
	return Relation{
		ID:              child + "_" + schema.ParentLinkField + "_" + parent + "_" + schema.KeyField,
		Name:            name,
		ParentTable:     parent,
		ChildTable:      child,
		ParentKey:       schema.KeyField,
		ChildForeignKey: schema.ParentLinkField,
	}
}

// Walk calls fn for n and every node below it, depth first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	if c, ok := n.(*Container); ok {
		for _, child := range c.Children {
			Walk(child, fn)
		}
	}
}
