// Package expr rewrites XLSForm expressions into the attribute expression
// language of the target form engine.
//
// The rewrite is a pipeline of textual stages. Stages run in a fixed order
// and later stages may match text produced by earlier ones, so the order is
// part of the output contract. Translation never fails: a result that does
// not parse in the target grammar is still returned, flagged with
// SyntaxError so the caller can warn with the original text.
package expr

import (
	"regexp"
	"strings"
)

// Options select how field references are rewritten.
type Options struct {
	// CurrentValue resolves ${f} to the value being edited instead of the
	// stored attribute.
	CurrentValue bool
	// Insert produces [% … %] template fragments for text interpolation.
	// Insert results are not syntax checked.
	Insert bool
	// DotField replaces a standalone "." with ${DotField}.
	DotField string
	// Self is the field whose own expression is translated; its
	// calculation is never inlined into itself.
	Self string
	// Calc holds calculations inlined wherever their field is referenced.
	Calc *CalcMap

	expanding map[string]bool
}

// Result of a translation.
type Result struct {
	Text        string
	SyntaxError bool
}

type stage struct {
	name  string
	apply func(string, *Options) string
}

// pipeline is assigned in init because inline re-enters it.
var pipeline []stage

func init() {
	pipeline = []stage{
		{"quotes", normalizeQuotes},
		{"dot", replaceDot},
		{"selected", rewriteSelected},
		{"regex", rewriteRegex},
		{"fields", substituteFields},
		{"today", rewriteToday},
		{"string-length", rewriteStringLength},
		// field substitution may expose new selected() calls
		{"selected", rewriteSelected},
	}
}

// Translate rewrites src according to opts.
func Translate(src string, opts Options) Result {
	out := src
	for _, s := range pipeline {
		out = s.apply(out, &opts)
	}
	res := Result{Text: out}
	if !opts.Insert && strings.TrimSpace(out) != "" {
		res.SyntaxError = Check(out) != nil
	}
	return res
}

var (
	fieldRef      = regexp.MustCompile(`\$\{([^}]+)}`)
	dotRef        = regexp.MustCompile(`(^|[\s<>=(),])\.($|[\s<>=(),])`)
	selectedCall  = regexp.MustCompile(`selected\s*\(\s*(\$\{[^}]+}),([^)]+)\)`)
	regexCall     = regexp.MustCompile(`regex\s*\(\s*(\$\{[^}]+})\s*,\s*'(.+)'\s*\)\s*$`)
	posixClass    = regexp.MustCompile(`([^\[])\[:(digit|upper|lower|alpha|alnum|punct|blank|word):\]([^\]])`)
	todayCall     = regexp.MustCompile(`today\(\)`)
	strLengthCall = regexp.MustCompile(`string-length\s*\(\s*([^\)]+)\)`)
)

var curlyQuotes = strings.NewReplacer("‘", "'", "’", "'")

func normalizeQuotes(s string, _ *Options) string {
	return curlyQuotes.Replace(s)
}

func replaceDot(s string, o *Options) string {
	if o.DotField == "" {
		return s
	}
	name := strings.ReplaceAll(o.DotField, "$", "$$")
	return dotRef.ReplaceAllString(s, "${1}$${"+name+"}${2}")
}

func rewriteSelected(s string, _ *Options) string {
	return selectedCall.ReplaceAllString(s, "${1} = ${2}")
}

func rewriteRegex(s string, _ *Options) string {
	m := regexCall.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	s = regexCall.ReplaceAllString(s, "regexp_match(${1}, '")
	s += strings.ReplaceAll(m[2], `\`, `\\`) + "')"
	return posixClass.ReplaceAllString(s, "${1}[[:${2}:]]${3}")
}

func substituteFields(s string, o *Options) string {
	if o.Calc.Len() > 0 {
		s = fieldRef.ReplaceAllStringFunc(s, func(ref string) string {
			return inline(ref, o)
		})
	}
	var tmpl string
	switch {
	case o.Insert && o.CurrentValue:
		tmpl = `[% current_value('${1}') %]`
	case o.Insert:
		tmpl = `[% "${1}" %]`
	case o.CurrentValue:
		tmpl = `current_value('${1}')`
	default:
		tmpl = `"${1}"`
	}
	return fieldRef.ReplaceAllString(s, tmpl)
}

// inline replaces a ${name} reference to a calculate field by its
// translated calculation. Calculations already being expanded stay plain
// references, which breaks reference cycles.
func inline(ref string, o *Options) string {
	name := ref[2 : len(ref)-1]
	if name == o.Self || o.expanding[name] {
		return ref
	}
	src, ok := o.Calc.Get(name)
	if !ok {
		return ref
	}
	expanding := make(map[string]bool, len(o.expanding)+2)
	for k := range o.expanding {
		expanding[k] = true
	}
	expanding[name] = true
	if o.Self != "" {
		expanding[o.Self] = true
	}
	sub := Options{CurrentValue: o.CurrentValue, Calc: o.Calc, expanding: expanding}
	text := src
	for _, s := range pipeline {
		text = s.apply(text, &sub)
	}
	if o.Insert {
		return "[% " + text + " %]"
	}
	return "(" + text + ")"
}

func rewriteToday(s string, _ *Options) string {
	return todayCall.ReplaceAllLiteralString(s, "format_date(now(),'yyyy-MM-dd')")
}

func rewriteStringLength(s string, _ *Options) string {
	return strLengthCall.ReplaceAllString(s, "length(${1})")
}

// LabelToExpr turns label text with ${field} references into a string
// concatenation expression usable as a data-defined alias.
func LabelToExpr(label string) Result {
	s := strings.ReplaceAll(label, "'", `\'`)
	s = fieldRef.ReplaceAllString(s, `' || "${1}" || '`)
	s = "'" + s + "'"
	return Result{Text: s, SyntaxError: Check(s) != nil}
}

// HasFieldRef reports whether s contains a ${field} reference.
func HasFieldRef(s string) bool {
	return strings.Contains(s, "${")
}
