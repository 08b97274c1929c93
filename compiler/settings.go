package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ridoystarlord/formgen/table"
	"golang.org/x/text/unicode/norm"
)

// Settings table columns.
const (
	ColFormTitle       = "form_title"
	ColFormID          = "form_id"
	ColDefaultLanguage = "default_language"
)

// DefaultTitle is used when neither the settings table nor the caller give one.
const DefaultTitle = "survey"

// Settings is the project-wide settings bag.
type Settings struct {
	Title       string `yaml:"title" json:"title"`
	FormID      string `yaml:"form_id,omitempty" json:"form_id,omitempty"`
	Language    string `yaml:"language,omitempty" json:"language,omitempty"`
	LabelColumn string `yaml:"label_column" json:"label_column"`
	// MaxImagePixels caps attachment image size, 0 when unset.
	MaxImagePixels int    `yaml:"max_image_pixels,omitempty" json:"max_image_pixels,omitempty"`
	FileName       string `yaml:"file_name" json:"file_name"`
}

// readSettings takes values from the first settings row only.
func readSettings(t *table.Table) Settings {
	s := Settings{Title: DefaultTitle}
	if t == nil || len(t.Rows) == 0 {
		return s
	}
	r := t.Rows[0]
	if v := r.Get(ColFormTitle); v != "" {
		s.Title = v
	}
	s.FormID = r.Get(ColFormID)
	s.Language = r.Get(ColDefaultLanguage)
	return s
}

// MissingColumnError reports a label column absent from the survey or
// choices table. It is fatal.
type MissingColumnError struct {
	Table    string
	Column   string
	Language string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s column not found in the %s table", e.Column, e.Table)
}

const (
	labelColumn = "label"
	labelPrefix = "label::"
)

// LabelColumn picks the label column of the survey table for language.
// It prefers label::<language>, then label, then the first label::*
// column, matching names case-insensitively. fallback reports that the
// preferred column was missing.
func LabelColumn(cols table.Index, language string) (name string, fallback bool, err error) {
	want := labelColumn
	if language != "" {
		want = labelPrefix + language
	}
	if n, i := cols.LookupFold(want); i >= 0 {
		return n, false, nil
	}
	first := ""
	for _, c := range cols.Names() {
		lc := strings.ToLower(c)
		if lc == labelColumn {
			return c, true, nil
		}
		if first == "" && strings.HasPrefix(lc, labelPrefix) {
			first = c
		}
	}
	if first != "" {
		return first, true, nil
	}
	return "", false, &MissingColumnError{Table: "survey", Column: want, Language: language}
}

var (
	nonWord  = regexp.MustCompile(`[^\w\s-]`)
	dashesWS = regexp.MustCompile(`[-\s]+`)
)

// FileName turns a title into an ASCII file name stem.
func FileName(title string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(title) {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	s := nonWord.ReplaceAllString(b.String(), "")
	return dashesWS.ReplaceAllString(s, "-")
}
