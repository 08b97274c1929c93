// Package validator checks the table and column names of a compiled form
// against PostgreSQL identifier rules before anything reaches the database.
package validator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/diag"
	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/runner"
	"github.com/ridoystarlord/formgen/schema"
)

// MaxIdentifierLength is the longest name PostgreSQL keeps; longer names
// are truncated.
const MaxIdentifierLength = 63

// ValidationError represents a validation error with details
type ValidationError struct {
	Table   string `json:"table,omitempty"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("[%s].%s: %s", e.Table, e.Column, e.Message)
	case e.Table != "":
		return fmt.Sprintf("[%s]: %s", e.Table, e.Message)
	default:
		return e.Message
	}
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

// Emit forwards every result to sink.
func (r *ValidationResult) Emit(sink diag.Sink) {
	for _, e := range r.Errors {
		sink.Error(e.String())
	}
	for _, w := range r.Warnings {
		sink.Warning(w.String())
	}
	for _, i := range r.Info {
		sink.Info(i.String())
	}
}

// Names that need quoting in PostgreSQL. Generated SQL always quotes, but
// other clients of the tables may not.
var reservedKeywords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "case": true, "cast": true,
	"check": true, "collate": true, "column": true, "constraint": true,
	"create": true, "current_date": true, "current_time": true,
	"current_timestamp": true, "current_user": true, "default": true,
	"desc": true, "distinct": true, "do": true, "else": true, "end": true,
	"except": true, "false": true, "for": true, "foreign": true, "from": true,
	"grant": true, "group": true, "having": true, "in": true, "into": true,
	"leading": true, "limit": true, "not": true, "null": true, "offset": true,
	"on": true, "only": true, "or": true, "order": true, "primary": true,
	"references": true, "select": true, "table": true, "then": true, "to": true,
	"true": true, "union": true, "unique": true, "user": true, "using": true,
	"when": true, "where": true, "window": true, "with": true,
}

// ValidateProject checks every data and choice table of p.
func ValidateProject(p *compiler.Project) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	var models []schema.Model
	for _, t := range p.Tables {
		models = append(models, t.Model())
	}
	for _, l := range p.Choices {
		models = append(models, diff.ChoiceModel(l))
	}

	tables := map[string]string{}
	for _, m := range models {
		validateTableName(m.TableName, result)
		folded := strings.ToLower(truncate(m.TableName))
		if prev, ok := tables[folded]; ok {
			result.Errors = append(result.Errors, ValidationError{
				Table:   m.TableName,
				Message: fmt.Sprintf("table name clashes with %s", prev),
			})
		}
		tables[folded] = m.TableName
		validateColumns(m, result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func truncate(name string) string {
	if len(name) > MaxIdentifierLength {
		return name[:MaxIdentifierLength]
	}
	return name
}

func validateTableName(tableName string, result *ValidationResult) {
	if len(tableName) > MaxIdentifierLength {
		result.Errors = append(result.Errors, ValidationError{
			Table:   tableName,
			Message: fmt.Sprintf("table name is too long (max %d bytes)", MaxIdentifierLength),
		})
	}
	if tableName == runner.DeploymentsTable {
		result.Errors = append(result.Errors, ValidationError{
			Table:   tableName,
			Message: "table name is used for the deployment history",
		})
	}
	if reservedKeywords[strings.ToLower(tableName)] {
		result.Info = append(result.Info, ValidationError{
			Table:   tableName,
			Message: "table name is a reserved keyword and must be quoted in SQL",
		})
	}
}

func validateColumns(model schema.Model, result *ValidationResult) {
	columns := map[string]string{}
	for _, col := range model.Columns {
		if len(col.Name) > MaxIdentifierLength {
			result.Errors = append(result.Errors, ValidationError{
				Table:   model.TableName,
				Column:  col.Name,
				Message: fmt.Sprintf("column name is too long (max %d bytes)", MaxIdentifierLength),
			})
		}
		folded := strings.ToLower(truncate(col.Name))
		if prev, ok := columns[folded]; ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Table:   model.TableName,
				Column:  col.Name,
				Message: fmt.Sprintf("column name differs from %s only by case or past %d bytes", prev, MaxIdentifierLength),
			})
		}
		columns[folded] = col.Name
		if reservedKeywords[strings.ToLower(col.Name)] {
			result.Info = append(result.Info, ValidationError{
				Table:   model.TableName,
				Column:  col.Name,
				Message: "column name is a reserved keyword and must be quoted in SQL",
			})
		}
	}
}
