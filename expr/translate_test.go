package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate_Default(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"today", "today()", "format_date(now(),'yyyy-MM-dd')"},
		{"selected", "selected(${field}, value)", `"field" =  value`},
		{"apostrophe untouched", "it's a test", "it's a test"},
		{"curly quotes", "${a} = ‘yes’", `"a" = 'yes'`},
		{"field reference", "${age} >= 18", `"age" >= 18`},
		{"string-length", "string-length(${name}) > 3", `length("name") > 3`},
		{"selected inside and", "selected(${a}, 'x') and ${b} != ''", `"a" =  'x' and "b" != ''`},
		{"regex", "regex(${code}, '^[:digit:]{3}$')", `regexp_match("code", '^[[:digit:]]{3}$')`},
		{"regex backslash", `regex(${mail}, '^\w+@\w+$')`, `regexp_match("mail", '^\\w+@\\w+$')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.in, Options{}).Text)
		})
	}
}

func TestTranslate_Modes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"default", Options{}, `"f" > 1`},
		{"current value", Options{CurrentValue: true}, `current_value('f') > 1`},
		{"insert", Options{Insert: true}, `[% "f" %] > 1`},
		{"insert current value", Options{Insert: true, CurrentValue: true}, `[% current_value('f') %] > 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate("${f} > 1", tt.opts).Text)
		})
	}
}

func TestTranslate_DotField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{". > 5", `"age" > 5`},
		{". >= 18 and . <= 99", `"age" >= 18 and "age" <= 99`},
		{"string-length(.) < 10", `length("age") < 10`},
		{"${other} > 1.5", `"other" > 1.5`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := Translate(tt.in, Options{DotField: "age"})
			assert.Equal(t, tt.want, res.Text)
			assert.False(t, res.SyntaxError)
		})
	}
}

func TestTranslate_SyntaxError(t *testing.T) {
	res := Translate("it's a test", Options{})
	assert.True(t, res.SyntaxError)

	res = Translate("count-selected(${a}) > 1", Options{})
	assert.Equal(t, `count-selected("a") > 1`, res.Text)
	assert.True(t, res.SyntaxError)

	res = Translate("${a} = 'x' or ${b} = 2", Options{})
	assert.False(t, res.SyntaxError)
}

func TestTranslate_EngineFunctions(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"contains(${a}, 'x')", `contains("a", 'x')`},
		{"is_empty(${a})", `is_empty("a")`},
		{"with_variable('x', 1, @x)", "with_variable('x', 1, @x)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := Translate(tt.in, Options{})
			assert.Equal(t, tt.want, res.Text)
			assert.False(t, res.SyntaxError)
		})
	}
}

func TestTranslate_InsertSkipsCheck(t *testing.T) {
	res := Translate("Hello ${name}, it's ok", Options{Insert: true, CurrentValue: true})
	assert.Equal(t, "Hello [% current_value('name') %], it's ok", res.Text)
	assert.False(t, res.SyntaxError)
}

func TestTranslate_InlinesCalculations(t *testing.T) {
	calc := NewCalcMap()
	calc.Set("total", "${a} + ${b}")
	calc.Set("double", "${total} * 2")

	res := Translate("${double} > 10", Options{Calc: calc})
	assert.Equal(t, `(("a" + "b") * 2) > 10`, res.Text)
	assert.False(t, res.SyntaxError)

	res = Translate("Total: ${total}", Options{Calc: calc, Insert: true, CurrentValue: true})
	assert.Equal(t, "Total: [% current_value('a') + current_value('b') %]", res.Text)
}

func TestTranslate_CalculationCycles(t *testing.T) {
	calc := NewCalcMap()
	calc.Set("a", "${b} + 1")
	calc.Set("b", "${a} + 1")

	assert.Equal(t, `(("a" + 1) + 1)`, Translate("${a}", Options{Calc: calc}).Text)
	assert.Equal(t, `("a" + 1) + 1`, Translate("${b} + 1", Options{Calc: calc, Self: "a"}).Text)
}

func TestLabelToExpr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"${a}", `'' || "a" || ''`},
		{"${a} and ${b}", `'' || "a" || ' and ' || "b" || ''`},
		{"Age of ${name}'s child", `'Age of ' || "name" || '\'s child'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := LabelToExpr(tt.in)
			assert.Equal(t, tt.want, res.Text)
			assert.False(t, res.SyntaxError)
		})
	}
}

func TestStages_Independent(t *testing.T) {
	assert.Equal(t, "${x} =  1", rewriteSelected("selected(${x}, 1)", &Options{}))
	assert.Equal(t, "a [[:alpha:]] b", posixClass.ReplaceAllString("a [:alpha:] b", "${1}[[:${2}:]]${3}"))
	assert.Equal(t, "length(x)", rewriteStringLength("string-length( x)", &Options{}))
	assert.Equal(t, "${me}", replaceDot(".", &Options{DotField: "me"}))
	assert.Equal(t, ".", replaceDot(".", &Options{}))
	assert.Equal(t, "''", normalizeQuotes("‘’", &Options{}))
}

func TestCalcMap(t *testing.T) {
	var nilMap *CalcMap
	_, ok := nilMap.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, nilMap.Len())

	m := NewCalcMap()
	m.Set("b", "1")
	m.Set("a", "2")
	m.Set("b", "3")
	assert.Equal(t, []string{"b", "a"}, m.Names())

	f := m.Frozen()
	m.Set("c", "4")
	assert.Equal(t, 2, f.Len())
	src, _ := f.Get("b")
	assert.Equal(t, "3", src)
}
