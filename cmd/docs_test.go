package cmd

import (
	"testing"

	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/loader"
	"github.com/ridoystarlord/formgen/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject(t *testing.T) *compiler.Project {
	t.Helper()
	src, err := loader.ParseYAML("form.yaml", []byte(sampleForm))
	require.NoError(t, err)
	log := &diag.Log{}
	p, err := compiler.Compile(src, compiler.Options{Renderer: markup.NewMarkdown(), Sink: log})
	require.NoError(t, err)
	assert.Empty(t, log.Filter(diag.Warning))
	return p
}

func TestSampleForm(t *testing.T) {
	p := sampleProject(t)
	assert.Equal(t, "Household survey", p.Settings.Title)
	assert.Equal(t, "household_survey", p.Settings.FormID)
	require.Len(t, p.Tables, 2)
	assert.Equal(t, "members", p.Tables[1].Name)
	require.Len(t, p.Choices, 1)
	assert.Equal(t, 2, p.Choices[0].Len())
}

func TestLinks(t *testing.T) {
	got := links(sampleProject(t))
	assert.Equal(t, []link{
		{from: "survey", to: "list_yes_no", label: "has_water", lookup: true},
		{from: "survey", to: "members", label: "uuid_parent"},
	}, got)
}

func TestGenerateMermaidContent(t *testing.T) {
	out := generateMermaidContent(sampleProject(t))
	assert.Contains(t, out, "# Household survey ERD")
	assert.Contains(t, out, "    survey {\n        TEXT uuid PK\n")
	assert.Contains(t, out, "        geometry geom\n")
	assert.Contains(t, out, "        TEXT uuid_parent FK\n")
	assert.Contains(t, out, "    survey ||--o{ members : uuid_parent\n")
	assert.Contains(t, out, "    survey }o--|| list_yes_no : has_water\n")
}

func TestGeneratePlantUMLContent(t *testing.T) {
	out := generatePlantUMLContent(sampleProject(t))
	assert.Contains(t, out, "entity \"members\" {\n")
	assert.Contains(t, out, "  household : TEXT <<NN>>\n")
	assert.Contains(t, out, "\"survey\" ||--o{ \"members\" : \"uuid_parent\"\n")
}

func TestGenerateFieldsContent(t *testing.T) {
	out := generateFieldsContent(sampleProject(t))
	assert.Contains(t, out, "## members\n\nRepeat of `survey`.\n")
	assert.Contains(t, out, "Geometry: MultiPoint")
	assert.Contains(t, out, "| household | Household name | string | TextEdit | yes |  |\n")
	assert.NotContains(t, out, "| uuid |")
	assert.Contains(t, out, "## Choice lists\n\n### yes_no\n\n| Value | Label |\n|---|---|\n| yes | Yes |\n| no | No |\n")
}

func TestDisplayType(t *testing.T) {
	assert.Equal(t, "DOUBLE_PRECISION", displayType("DOUBLE PRECISION"))
	assert.Equal(t, "geometry", displayType("geometry(MultiPoint, 4326)"))
	assert.Equal(t, "TEXT", displayType("TEXT"))
}

func TestCell(t *testing.T) {
	assert.Equal(t, `a \| b c`, cell("a | b\nc"))
}
