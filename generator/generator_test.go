package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/loader"
	"github.com/ridoystarlord/formgen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func project() *compiler.Project {
	return &compiler.Project{
		Settings: compiler.Settings{Title: "Households", FileName: "Households"},
		Tables: []*schema.Table{
			{
				Name:     "survey",
				Geometry: schema.MultiPoint,
				Fields: []schema.FieldSpec{
					{Name: schema.KeyField, Type: schema.String},
					{Name: "age", Type: schema.Integer, NotNull: true},
				},
			},
			{
				Name:       "members",
				Parent:     "survey",
				ParentLink: schema.ParentLinkField,
				Fields: []schema.FieldSpec{
					{Name: schema.KeyField, Type: schema.String},
					{Name: schema.ParentLinkField, Type: schema.String},
					{Name: "member", Type: schema.String},
				},
			},
		},
		Choices: []*choices.List{
			{Name: "yes_no", Columns: []string{"name", "label", "region"}, KeyColumn: "name", LabelColumn: "label",
			Rows: [][]string{{"", "", ""}, {"yes", "Yes", ""}, {"o'k", "O'K", "north"}}},
		},
	}
}

func TestGenerateSQL_CreateAll(t *testing.T) {
	stmts, err := GenerateSQL(diff.DiffSchemas(project(), nil))
	require.NoError(t, err)

	assert.Equal(t, []string{
		PostGISExtension,
		`CREATE TABLE "survey" ("uuid" TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text, "age" BIGINT NOT NULL, "geom" geometry(MultiPoint, 4326));`,
		`CREATE TABLE "members" ("uuid" TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text, "uuid_parent" TEXT NOT NULL REFERENCES "survey" ("uuid") ON DELETE CASCADE, "member" TEXT);`,
		`CREATE TABLE "list_yes_no" ("name" TEXT, "label" TEXT, "region" TEXT);`,
		`INSERT INTO "list_yes_no" ("name", "label", "region") VALUES ('', '', NULL), ('yes', 'Yes', NULL), ('o''k', 'O''K', 'north');`,
	}, stmts)
}

func TestGenerateSQL_Changes(t *testing.T) {
	notNull := schema.Column{Name: "age", Type: "BIGINT", NotNull: true}
	list := &choices.List{Name: "yes_no", Columns: []string{"name"}, KeyColumn: "name", Rows: [][]string{{""}, {"yes"}}}
	ops := []diff.Operation{
		{Type: diff.AddColumn, TableName: "survey", Column: &notNull},
		{Type: diff.RefreshChoices, TableName: "list_yes_no", List: list},
	}

	stmts, err := GenerateSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`ALTER TABLE "survey" ADD COLUMN "age" BIGINT;`,
		`DELETE FROM "list_yes_no";`,
		`INSERT INTO "list_yes_no" ("name") VALUES (''), ('yes');`,
	}, stmts)

	rollback, err := GenerateRollbackSQL(ops)
	require.NoError(t, err)
	assert.Equal(t, []string{`ALTER TABLE "survey" DROP COLUMN IF EXISTS "age";`}, rollback)
}

func TestGenerateSQL_Errors(t *testing.T) {
	_, err := GenerateSQL([]diff.Operation{{Type: "DROP_TABLE", TableName: "x"}})
	assert.ErrorContains(t, err, "unsupported operation")

	_, err = GenerateSQL([]diff.Operation{{Type: diff.CreateTable, TableName: "x"}})
	assert.ErrorContains(t, err, "no columns")

	_, err = GenerateSQL([]diff.Operation{{Type: diff.AddColumn, TableName: "x"}})
	assert.Error(t, err)
}

func TestGenerateRollbackSQL_Reverse(t *testing.T) {
	rollback, err := GenerateRollbackSQL(diff.DiffSchemas(project(), nil))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`DROP TABLE IF EXISTS "list_yes_no";`,
		`DROP TABLE IF EXISTS "members";`,
		`DROP TABLE IF EXISTS "survey";`,
	}, rollback)
}

func TestWriteSchemaFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	path, err := WriteSchemaFile(dir, "Households", []string{"CREATE TABLE a ();"}, []string{"DROP TABLE a;"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Households.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- Up\n-- ==\nCREATE TABLE a ();\n")
	assert.Contains(t, string(data), "-- Down (Rollback)\n-- ================\nDROP TABLE a;\n")
}

const formYAML = `
survey:
  - {type: integer, name: age, label: Age}
  - {type: begin group, name: g, label: Group, relevant: "${age} > 18"}
  - {type: text, name: job, label: Job}
  - {type: end group}
  - {type: begin repeat, name: members, label: Members}
  - {type: text, name: member, label: Member}
  - {type: note, name: n, label: Thanks}
  - {type: end repeat}
settings:
  - {form_title: Héllo World}
`

func TestWriteProject(t *testing.T) {
	src, err := loader.ParseYAML("form.yaml", []byte(formYAML))
	require.NoError(t, err)
	p, err := compiler.Compile(src, compiler.Options{})
	require.NoError(t, err)

	d := NewDescriptor(p)
	require.Len(t, d.Layouts, 2)
	root := d.Layouts[0].Tabs[0]
	assert.Equal(t, "container", root.Element)
	assert.Equal(t, "Survey", root.Name)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "field", root.Children[0].Element)
	assert.Equal(t, "age", root.Children[0].Name)
	assert.Equal(t, "groupbox", root.Children[1].Kind)
	assert.Equal(t, `"age" > 18`, root.Children[1].Visibility)
	assert.Equal(t, "relation", root.Children[2].Element)
	assert.Equal(t, "members", root.Children[2].Table)

	child := d.Layouts[1].Tabs[0]
	require.Len(t, child.Children, 2)
	assert.Equal(t, "text", child.Children[1].Element)

	dir := t.TempDir()
	path, err := WriteProject(dir, p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Hello-World.formgen.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Descriptor
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "Héllo World", back.Settings.Title)
	require.Len(t, back.Tables, 2)
	assert.Equal(t, "members", back.Tables[1].Name)
	require.Len(t, back.Relations, 1)
	assert.Equal(t, d.Layouts, back.Layouts)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "survey", BaseName(&compiler.Project{}))
	assert.Equal(t, "x", BaseName(&compiler.Project{Settings: compiler.Settings{FileName: "x"}}))
}
