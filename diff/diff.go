// Package diff compares a compiled project with the tables already in the
// database and lists the operations that bring the database up to date.
// Columns are never dropped or altered: data collected with an earlier
// version of a form stays in place.
package diff

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/introspect"
	"github.com/ridoystarlord/formgen/schema"
)

type OperationType string

const (
	CreateTable       OperationType = "CREATE_TABLE"
	AddColumn         OperationType = "ADD_COLUMN"
	CreateChoiceTable OperationType = "CREATE_CHOICE_TABLE"
	RefreshChoices    OperationType = "REFRESH_CHOICES"
)

type Operation struct {
	Type      OperationType
	TableName string
	Columns   []schema.Column // for CREATE_TABLE, CREATE_CHOICE_TABLE
	Column    *schema.Column  // for ADD_COLUMN
	List      *choices.List   // for CREATE_CHOICE_TABLE, REFRESH_CHOICES
}

// ChoiceModel renders a choice list as a table of text columns.
func ChoiceModel(l *choices.List) schema.Model {
	m := schema.Model{TableName: l.TableName()}
	for _, c := range l.Columns {
		m.Columns = append(m.Columns, schema.Column{Name: c, Type: "TEXT"})
	}
	return m
}

// DiffSchemas returns the operations for p against existing, data tables
// first (parents before children) then choice lists.
func DiffSchemas(p *compiler.Project, existing []introspect.ExistingTable) []Operation {
	var ops []Operation

	existingTableMap := map[string]introspect.ExistingTable{}
	for _, t := range existing {
		existingTableMap[t.TableName] = t
	}

	for _, t := range p.Tables {
		model := t.Model()
		table, exists := existingTableMap[model.TableName]
		if !exists {
			ops = append(ops, Operation{
				Type:      CreateTable,
				TableName: model.TableName,
				Columns:   model.Columns,
			})
			continue
		}
		for _, col := range model.Columns {
			if table.Column(col.Name) == nil {
				ops = append(ops, Operation{
					Type:      AddColumn,
					TableName: model.TableName,
					Column:    &col,
				})
			}
		}
	}

	for _, l := range p.Choices {
		model := ChoiceModel(l)
		table, exists := existingTableMap[model.TableName]
		if !exists {
			ops = append(ops, Operation{
				Type:      CreateChoiceTable,
				TableName: model.TableName,
				Columns:   model.Columns,
				List:      l,
			})
			continue
		}
		for _, col := range model.Columns {
			if table.Column(col.Name) == nil {
				ops = append(ops, Operation{
					Type:      AddColumn,
					TableName: model.TableName,
					Column:    &col,
				})
			}
		}
		ops = append(ops, Operation{
			Type:      RefreshChoices,
			TableName: model.TableName,
			List:      l,
		})
	}

	return ops
}

var dataTypes = map[string]string{
	"BIGINT":           "bigint",
	"DOUBLE PRECISION": "double precision",
	"DATE":             "date",
	"TIME":             "time without time zone",
	"TIMESTAMP":        "timestamp without time zone",
	"BOOLEAN":          "boolean",
	"TEXT":             "text",
}

// dataType maps a column type to the information_schema data_type name.
func dataType(sqlType string) string {
	if strings.HasPrefix(sqlType, "geometry(") {
		return "USER-DEFINED"
	}
	if s, ok := dataTypes[strings.ToUpper(sqlType)]; ok {
		return s
	}
	return strings.ToLower(sqlType)
}

// Conflicts reports existing columns that no operation can reconcile: a
// type that differs from the compiled one or a child table whose parent
// link has no foreign key.
func Conflicts(p *compiler.Project, existing []introspect.ExistingTable) []string {
	existingTableMap := map[string]introspect.ExistingTable{}
	for _, t := range existing {
		existingTableMap[t.TableName] = t
	}

	var out []string
	for _, t := range p.Tables {
		model := t.Model()
		table, exists := existingTableMap[model.TableName]
		if !exists {
			continue
		}
		for _, col := range model.Columns {
			ec := table.Column(col.Name)
			if ec == nil {
				continue
			}
			if want := dataType(col.Type); !strings.EqualFold(ec.DataType, want) {
				out = append(out, fmt.Sprintf("%s.%s is %s in the database, expected %s", model.TableName, col.Name, ec.DataType, want))
			}
			if col.ForeignKey != nil && !hasForeignKey(table, col.Name, col.ForeignKey.ReferencesTable) {
				out = append(out, fmt.Sprintf("%s.%s has no foreign key to %s", model.TableName, col.Name, col.ForeignKey.ReferencesTable))
			}
		}
	}
	return out
}

func hasForeignKey(t introspect.ExistingTable, column, references string) bool {
	for _, fk := range t.ForeignKeys {
		if fk.ColumnName == column && fk.ReferencesTable == references {
			return true
		}
	}
	return false
}
