package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/form"
	"github.com/ridoystarlord/formgen/generator"
	"github.com/ridoystarlord/formgen/schema"
)

var docsFormat string

var docsCmd = &cobra.Command{
	Use:   "docs <form>",
	Short: "Generate documentation from a form",
	Long: `Generate ERD diagrams and a field reference from a compiled form.

Supported formats:
  - plantuml: PlantUML ERD diagram
  - mermaid: Mermaid ERD diagram
  - graphviz: Graphviz DOT format
  - fields: Markdown field reference
  - all: every format above

Files are written to the output directory as <title>.erd.puml,
<title>.erd.md, <title>.erd.dot and <title>.fields.md.

Examples:
  formgen docs form.xlsx --format plantuml
  formgen docs form.xlsx --format mermaid -o docs
  formgen docs form.xlsx --format all
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("❌ Error loading config: %v\n", err)
			os.Exit(1)
		}
		p, err := compileForm(args[0], cfg, "", consoleSink{verbose: verbose})
		if err != nil {
			os.Exit(1)
		}

		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			fmt.Printf("❌ Error creating output directory: %v\n", err)
			os.Exit(1)
		}

		formats := []string{docsFormat}
		if docsFormat == "all" {
			formats = []string{"plantuml", "mermaid", "graphviz", "fields"}
		}
		for _, f := range formats {
			gen, ok := docGenerators[f]
			if !ok {
				fmt.Printf("❌ Unsupported format: %s\n", f)
				fmt.Println("Supported formats: plantuml, mermaid, graphviz, fields, all")
				os.Exit(1)
			}
			output := filepath.Join(cfg.Output, generator.BaseName(p)+gen.suffix)
			if err := os.WriteFile(output, []byte(gen.content(p)), 0o644); err != nil {
				fmt.Printf("❌ Error writing %s file: %v\n", f, err)
				os.Exit(1)
			}
			fmt.Printf("✅ %s saved to: %s\n", gen.title, output)
		}

		fmt.Println("✅ Documentation generated successfully!")
	},
}

func init() {
	docsCmd.Flags().StringVarP(&docsFormat, "format", "f", "mermaid", "Documentation format (plantuml, mermaid, graphviz, fields, all)")
}

type docGenerator struct {
	title   string
	suffix  string
	content func(*compiler.Project) string
}

var docGenerators = map[string]docGenerator{
	"plantuml": {"PlantUML ERD", ".erd.puml", generatePlantUMLContent},
	"mermaid":  {"Mermaid ERD", ".erd.md", generateMermaidContent},
	"graphviz": {"Graphviz ERD", ".erd.dot", generateGraphvizContent},
	"fields":   {"Field reference", ".fields.md", generateFieldsContent},
}

// models returns the data tables followed by the choice tables.
func models(p *compiler.Project) []schema.Model {
	var out []schema.Model
	for _, t := range p.Tables {
		out = append(out, t.Model())
	}
	for _, l := range p.Choices {
		out = append(out, diff.ChoiceModel(l))
	}
	return out
}

// link is an edge of the diagram: a parent link or a choice lookup.
type link struct {
	from, to, label string
	lookup          bool
}

func links(p *compiler.Project) []link {
	var out []link
	for _, t := range p.Tables {
		for _, f := range t.Fields {
			if f.Name == schema.ParentLinkField && t.Parent != "" {
				out = append(out, link{from: t.Parent, to: t.Name, label: f.Name})
			}
			if f.Widget == nil || f.Widget.Type != form.WidgetValueRelation {
				continue
			}
			if layer, ok := f.Widget.Config["Layer"].(string); ok {
				out = append(out, link{from: t.Name, to: layer, label: f.Name, lookup: true})
			}
		}
	}
	return out
}

// displayType shortens a column type to a single diagram token.
func displayType(sqlType string) string {
	if i := strings.Index(sqlType, "("); i >= 0 {
		sqlType = sqlType[:i]
	}
	return strings.ReplaceAll(sqlType, " ", "_")
}

func generatePlantUMLContent(p *compiler.Project) string {
	var content strings.Builder

	content.WriteString("@startuml\n")
	content.WriteString("!theme plain\n")
	content.WriteString("skinparam linetype ortho\n\n")

	for _, model := range models(p) {
		content.WriteString(fmt.Sprintf("entity \"%s\" {\n", model.TableName))
		for _, col := range model.Columns {
			line := fmt.Sprintf("  %s : %s", col.Name, displayType(col.Type))
			if col.Primary {
				line += " <<PK>>"
			}
			if col.NotNull {
				line += " <<NN>>"
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("}\n\n")
	}

	for _, l := range links(p) {
		arrow := "||--o{"
		if l.lookup {
			arrow = "}o--||"
		}
		content.WriteString(fmt.Sprintf("\"%s\" %s \"%s\" : \"%s\"\n", l.from, arrow, l.to, l.label))
	}

	content.WriteString("@enduml\n")
	return content.String()
}

func generateMermaidContent(p *compiler.Project) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("# %s ERD\n\n", p.Settings.Title))
	content.WriteString("```mermaid\nerDiagram\n")

	for _, model := range models(p) {
		content.WriteString(fmt.Sprintf("    %s {\n", model.TableName))
		for _, col := range model.Columns {
			line := fmt.Sprintf("        %s %s", displayType(col.Type), col.Name)
			if col.Primary {
				line += " PK"
			} else if col.ForeignKey != nil {
				line += " FK"
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("    }\n")
	}

	for _, l := range links(p) {
		arrow := "||--o{"
		if l.lookup {
			arrow = "}o--||"
		}
		content.WriteString(fmt.Sprintf("    %s %s %s : %s\n", l.from, arrow, l.to, l.label))
	}

	content.WriteString("```\n")
	return content.String()
}

func generateGraphvizContent(p *compiler.Project) string {
	var content strings.Builder

	content.WriteString("digraph ERD {\n")
	content.WriteString("  rankdir=LR;\n")
	content.WriteString("  node [shape=record];\n\n")

	for _, model := range models(p) {
		var columns []string
		for _, col := range model.Columns {
			line := fmt.Sprintf("%s: %s", col.Name, displayType(col.Type))
			if col.Primary {
				line += " (PK)"
			}
			if col.NotNull {
				line += " (NN)"
			}
			columns = append(columns, line)
		}
		content.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s|%s\\l\"];\n", model.TableName, model.TableName, strings.Join(columns, "\\l")))
	}

	for _, l := range links(p) {
		style := ""
		if l.lookup {
			style = ", style=dashed"
		}
		content.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\"%s];\n", l.from, l.to, l.label, style))
	}

	content.WriteString("}\n")
	return content.String()
}

func generateFieldsContent(p *compiler.Project) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("# %s\n\n", p.Settings.Title))
	if p.Settings.FormID != "" {
		content.WriteString(fmt.Sprintf("Form id: `%s`\n\n", p.Settings.FormID))
	}

	for _, t := range p.Tables {
		content.WriteString(fmt.Sprintf("## %s\n\n", t.Name))
		if t.Parent != "" {
			content.WriteString(fmt.Sprintf("Repeat of `%s`.\n\n", t.Parent))
		}
		if t.Geometry != schema.NoGeometry {
			content.WriteString(fmt.Sprintf("Geometry: %s\n\n", t.Geometry))
		}
		content.WriteString("| Field | Label | Type | Widget | Required | Constraint |\n")
		content.WriteString("|---|---|---|---|---|---|\n")
		for _, f := range t.Fields {
			if f.Structural() {
				continue
			}
			widget := ""
			if f.Widget != nil {
				widget = f.Widget.Type
			}
			required := ""
			if f.NotNull {
				required = "yes"
			}
			content.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				f.Name, cell(f.Alias), f.Type, widget, required, cell(f.Constraint)))
		}
		content.WriteString("\n")
	}

	if len(p.Choices) > 0 {
		content.WriteString("## Choice lists\n\n")
	}
	for _, l := range p.Choices {
		content.WriteString(fmt.Sprintf("### %s\n\n", l.Name))
		content.WriteString("| Value | Label |\n|---|---|\n")
		keys, labels := l.Values(l.KeyColumn), l.Values(l.LabelColumn)
		// first entry is the empty sentinel
		for i := 1; i < len(keys); i++ {
			label := ""
			if i < len(labels) {
				label = labels[i]
			}
			content.WriteString(fmt.Sprintf("| %s | %s |\n", cell(keys[i]), cell(label)))
		}
		content.WriteString("\n")
	}
	return content.String()
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
