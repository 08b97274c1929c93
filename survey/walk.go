package survey

import "fmt"

// RootTable names the table of rows outside any repeat.
const RootTable = "survey"

// StructureError reports malformed repeat nesting. It is fatal.
type StructureError struct {
	Line int
	Msg  string
}

func (e *StructureError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Step is one row seen by Walk together with its scope.
type Step struct {
	Row *Row
	// Table the row belongs to. For begin repeat it is the parent table,
	// for end repeat the table being closed.
	Table string
	// Depth is the group nesting inside Table before the row applies.
	Depth int
	// Scope lists the open repeats, outermost first, before the row applies.
	Scope []string
}

type frame struct {
	name  string
	line  int
	depth int
}

// Check validates scope nesting. Repeat imbalance, empty or duplicate
// repeat names are fatal; stray or unterminated groups are returned as
// warnings. Groups only nest containers inside one table, so an end group
// at base level is a no-op and an open group closes with its table.
func Check(rows []Row) ([]string, error) {
	var warnings []string
	stack := []frame{{name: RootTable}}
	seen := map[string]int{RootTable: 0}
	for i := range rows {
		r := &rows[i]
		top := &stack[len(stack)-1]
		switch r.Type.Kind {
		case BeginRepeat:
			if r.Name == "" {
				return warnings, &StructureError{Line: r.Line, Msg: "begin repeat without a name"}
			}
			if line, dup := seen[r.Name]; dup {
				if line == 0 {
					return warnings, &StructureError{Line: r.Line, Msg: fmt.Sprintf("repeat %s clashes with the root table name", r.Name)}
				}
				return warnings, &StructureError{Line: r.Line, Msg: fmt.Sprintf("repeat %s already declared at line %d", r.Name, line)}
			}
			seen[r.Name] = r.Line
			stack = append(stack, frame{name: r.Name, line: r.Line})
		case EndRepeat:
			if len(stack) == 1 {
				return warnings, &StructureError{Line: r.Line, Msg: "end repeat without matching begin repeat"}
			}
			if top.depth > 0 {
				warnings = append(warnings, fmt.Sprintf("%d group(s) left open in repeat %s, closed at line %d", top.depth, top.name, r.Line))
			}
			stack = stack[:len(stack)-1]
		case BeginGroup:
			top.depth++
		case EndGroup:
			if top.depth == 0 {
				warnings = append(warnings, fmt.Sprintf("end group at line %d has no matching begin group, ignored", r.Line))
				continue
			}
			top.depth--
		}
	}
	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return warnings, &StructureError{Line: open.line, Msg: fmt.Sprintf("repeat %s is never closed", open.name)}
	}
	if stack[0].depth > 0 {
		warnings = append(warnings, fmt.Sprintf("%d group(s) left open at the end of the survey", stack[0].depth))
	}
	return warnings, nil
}

// Walk visits rows in order while tracking repeat and group scope. It is the
// single traversal shared by every pass over the survey. An end repeat with
// no open repeat stops the walk with a *StructureError.
func Walk(rows []Row, fn func(Step) error) error {
	stack := []frame{{name: RootTable}}
	for i := range rows {
		r := &rows[i]
		top := &stack[len(stack)-1]
		st := Step{Row: r, Table: top.name, Depth: top.depth, Scope: scope(stack)}
		if r.Type.Kind == EndRepeat && len(stack) == 1 {
			return &StructureError{Line: r.Line, Msg: "end repeat without matching begin repeat"}
		}
		if err := fn(st); err != nil {
			return err
		}
		switch r.Type.Kind {
		case BeginRepeat:
			stack = append(stack, frame{name: r.Name, line: r.Line})
		case EndRepeat:
			stack = stack[:len(stack)-1]
		case BeginGroup:
			top.depth++
		case EndGroup:
			if top.depth > 0 {
				top.depth--
			}
		}
	}
	return nil
}

func scope(stack []frame) []string {
	out := make([]string, 0, len(stack)-1)
	for _, f := range stack[1:] {
		out = append(out, f.name)
	}
	return out
}
