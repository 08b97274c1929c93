// Package generator renders compiled projects: PostgreSQL DDL for the data
// and choice tables, and the YAML project descriptor.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ridoystarlord/formgen/choices"
	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/schema"
)

// PostGISExtension is emitted before the first geometry column.
const PostGISExtension = "CREATE EXTENSION IF NOT EXISTS postgis;"

// GenerateSQL converts a list of Operations into raw SQL statements.
func GenerateSQL(ops []diff.Operation) ([]string, error) {
	var sqlStatements []string
	if needsPostGIS(ops) {
		sqlStatements = append(sqlStatements, PostGISExtension)
	}

	for _, op := range ops {
		switch op.Type {
		case diff.CreateTable, diff.CreateChoiceTable:
			stmt, err := generateCreateTable(op)
			if err != nil {
				return nil, fmt.Errorf("generate CREATE TABLE: %w", err)
			}
			sqlStatements = append(sqlStatements, stmt)
			if op.List != nil {
				sqlStatements = append(sqlStatements, generateInserts(op.TableName, op.List)...)
			}

		case diff.AddColumn:
			if op.Column == nil {
				return nil, fmt.Errorf("ADD COLUMN on %s: column is nil", op.TableName)
			}
			col := *op.Column
			// Existing rows have no value for a new column without default.
			if col.Default == nil {
				col.NotNull = false
			}
			stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s;`,
				ident(op.TableName),
				columnDef(col),
			)
			sqlStatements = append(sqlStatements, stmt)

		case diff.RefreshChoices:
			if op.List == nil {
				return nil, fmt.Errorf("REFRESH CHOICES on %s: list is nil", op.TableName)
			}
			sqlStatements = append(sqlStatements, fmt.Sprintf(`DELETE FROM %s;`, ident(op.TableName)))
			sqlStatements = append(sqlStatements, generateInserts(op.TableName, op.List)...)

		default:
			return nil, fmt.Errorf("unsupported operation: %s", op.Type)
		}
	}

	return sqlStatements, nil
}

// GenerateRollbackSQL converts a list of Operations into rollback SQL
// statements. Refreshed choice lists are not restored.
func GenerateRollbackSQL(ops []diff.Operation) ([]string, error) {
	var sqlStatements []string

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		switch op.Type {
		case diff.CreateTable, diff.CreateChoiceTable:
			sqlStatements = append(sqlStatements, fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, ident(op.TableName)))

		case diff.AddColumn:
			sqlStatements = append(sqlStatements, fmt.Sprintf(`ALTER TABLE %s DROP COLUMN IF EXISTS %s;`,
				ident(op.TableName),
				ident(op.Column.Name),
			))

		case diff.RefreshChoices:

		default:
			return nil, fmt.Errorf("unsupported rollback operation: %s", op.Type)
		}
	}

	return sqlStatements, nil
}

func needsPostGIS(ops []diff.Operation) bool {
	for _, op := range ops {
		if op.Column != nil && isGeometry(op.Column.Type) {
			return true
		}
		for _, c := range op.Columns {
			if isGeometry(c.Type) {
				return true
			}
		}
	}
	return false
}

func isGeometry(sqlType string) bool {
	return strings.HasPrefix(sqlType, "geometry(")
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func literal(v string) string {
	if v == "" {
		return "NULL"
	}
	return quote(v)
}

func columnDef(col schema.Column) string {
	def := ident(col.Name) + " " + col.Type
	if col.Primary {
		def += " PRIMARY KEY"
	}
	if col.NotNull {
		def += " NOT NULL"
	}
	if col.Default != nil {
		def += " DEFAULT " + *col.Default
	}
	if fk := col.ForeignKey; fk != nil {
		def += fmt.Sprintf(" REFERENCES %s (%s)", ident(fk.ReferencesTable), ident(fk.ReferencesColumn))
		if fk.OnDelete != "" {
			def += " ON DELETE " + fk.OnDelete
		}
	}
	return def
}

func generateCreateTable(op diff.Operation) (string, error) {
	if len(op.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", op.TableName)
	}
	defs := make([]string, len(op.Columns))
	for i, col := range op.Columns {
		defs[i] = columnDef(col)
	}
	return fmt.Sprintf(`CREATE TABLE %s (%s);`, ident(op.TableName), strings.Join(defs, ", ")), nil
}

// generateInserts fills a choice table, sentinel row included. The
// sentinel's key and label are empty strings; other empty cells are NULL.
func generateInserts(tableName string, l *choices.List) []string {
	if len(l.Rows) == 0 || len(l.Columns) == 0 {
		return nil
	}
	cols := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		cols[i] = ident(c)
	}
	values := make([]string, len(l.Rows))
	for i, row := range l.Rows {
		cells := make([]string, len(l.Columns))
		for j := range l.Columns {
			v := ""
			if j < len(row) {
				v = row[j]
			}
			if i == 0 && (l.Columns[j] == l.KeyColumn || l.Columns[j] == l.LabelColumn) {
				cells[j] = quote(v)
				continue
			}
			cells[j] = literal(v)
		}
		values[i] = "(" + strings.Join(cells, ", ") + ")"
	}
	return []string{fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s;`,
		ident(tableName),
		strings.Join(cols, ", "),
		strings.Join(values, ", "),
	)}
}

// WriteSchemaFile saves the SQL statements into <dir>/<name>.sql with
// up/down sections.
func WriteSchemaFile(dir, name string, sqlStatements, rollbackStatements []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}
	filename := filepath.Join(dir, name+".sql")

	var b strings.Builder
	b.WriteString("-- Form: " + name + "\n")
	b.WriteString("-- Description: Auto-generated schema\n\n")

	b.WriteString("-- Up\n")
	b.WriteString("-- ==\n")
	for _, stmt := range sqlStatements {
		b.WriteString(stmt + "\n")
	}

	b.WriteString("\n-- Down (Rollback)\n")
	b.WriteString("-- ================\n")
	for _, stmt := range rollbackStatements {
		b.WriteString(stmt + "\n")
	}

	if err := os.WriteFile(filename, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing schema file: %w", err)
	}
	return filename, nil
}
