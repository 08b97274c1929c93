package survey

import (
	"strings"

	"github.com/ridoystarlord/formgen/table"
)

// Survey column names
const (
	ColType              = "type"
	ColName              = "name"
	ColCalculation       = "calculation"
	ColRelevant          = "relevant"
	ColChoiceFilter      = "choice_filter"
	ColParameters        = "parameters"
	ColConstraint        = "constraint"
	ColConstraintMessage = "constraint_message"
	ColRequired          = "required"
	ColDefault           = "default"
	ColReadOnly          = "read_only"
	ColTrigger           = "trigger"
)

// Row is one survey record with its columns resolved.
type Row struct {
	Line              int
	Type              Type
	RawType           string
	Name              string
	Label             string
	Calculation       string
	Relevant          string
	ChoiceFilter      string
	Parameters        string
	Constraint        string
	ConstraintMessage string
	Required          string
	Default           string
	ReadOnly          string
	Trigger           string
}

// IsRequired reports a required column set to yes.
func (r *Row) IsRequired() bool { return strings.EqualFold(r.Required, "yes") }

// IsReadOnly reports a read_only column set to yes.
func (r *Row) IsReadOnly() bool { return strings.EqualFold(r.ReadOnly, "yes") }

// Columns records which optional survey columns exist.
type Columns struct {
	Calculation bool
	Relevant    bool
	Parameters  bool
	Default     bool
	ReadOnly    bool
	Trigger     bool
}

type Survey struct {
	Rows        []Row
	Has         Columns
	LabelColumn string
}

// Parse resolves the survey table once. Rows without a type are dropped.
// labelColumn must be the exact name of the label column in t.
func Parse(t *table.Table, labelColumn string) (*Survey, error) {
	if err := t.Require(ColType, ColName); err != nil {
		return nil, err
	}
	if labelColumn != "" {
		if err := t.Require(labelColumn); err != nil {
			return nil, err
		}
	}

	idx := t.Columns
	col := func(name string) int {
		if name == "" {
			return -1
		}
		return idx.Lookup(name)
	}
	var (
		cType       = col(ColType)
		cName       = col(ColName)
		cLabel      = col(labelColumn)
		cCalc       = col(ColCalculation)
		cRelevant   = col(ColRelevant)
		cFilter     = col(ColChoiceFilter)
		cParams     = col(ColParameters)
		cConstraint = col(ColConstraint)
		cMessage    = col(ColConstraintMessage)
		cRequired   = col(ColRequired)
		cDefault    = col(ColDefault)
		cReadOnly   = col(ColReadOnly)
		cTrigger    = col(ColTrigger)
	)

	s := &Survey{
		LabelColumn: labelColumn,
		Has: Columns{
			Calculation: cCalc >= 0,
			Relevant:    cRelevant >= 0,
			Parameters:  cParams >= 0,
			Default:     cDefault >= 0,
			ReadOnly:    cReadOnly >= 0,
			Trigger:     cTrigger >= 0,
		},
	}
	for _, r := range t.Rows {
		raw := r.At(cType)
		if raw == "" {
			continue
		}
		s.Rows = append(s.Rows, Row{
			Line:              r.Line,
			Type:              ParseType(raw),
			RawType:           raw,
			Name:              r.At(cName),
			Label:             r.At(cLabel),
			Calculation:       r.At(cCalc),
			Relevant:          r.At(cRelevant),
			ChoiceFilter:      r.At(cFilter),
			Parameters:        r.At(cParams),
			Constraint:        r.At(cConstraint),
			ConstraintMessage: r.At(cMessage),
			Required:          r.At(cRequired),
			Default:           r.At(cDefault),
			ReadOnly:          r.At(cReadOnly),
			Trigger:           r.At(cTrigger),
		})
	}
	return s, nil
}
