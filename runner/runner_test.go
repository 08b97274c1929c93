package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	a := Checksum([]string{"CREATE TABLE a ();", "CREATE TABLE b ();"})
	assert.Len(t, a, 64)
	assert.Equal(t, a, Checksum([]string{"CREATE TABLE a ();", "CREATE TABLE b ();"}))
	assert.NotEqual(t, a, Checksum([]string{"CREATE TABLE b ();", "CREATE TABLE a ();"}))
}

func TestHistoryQuery(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		formID   string
		contains []string
		args     []any
	}{
		{"all", 0, "", []string{"ORDER BY executed_at DESC"}, nil},
		{"limit", 5, "", []string{"ORDER BY executed_at DESC LIMIT $1"}, []any{5}},
		{"form", 0, "hh", []string{"WHERE form_id = $1 ORDER BY"}, []any{"hh"}},
		{"form and limit", 3, "hh", []string{"WHERE form_id = $1", "LIMIT $2"}, []any{"hh", 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := historyQuery(tt.limit, tt.formID)
			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}
