package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "<p>Hello World</p>", "Hello World"},
		{"nested", "<div><p>Hello <b>World</b></p></div>", "Hello World"},
		{"no tags", "Plain text", "Plain text"},
		{"empty", "", ""},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"field reference", "<span style=\"color:red\">Age of ${name}</span>", "Age of ${name}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown()

	out := md.Render("**Hi** ${name}")
	assert.Contains(t, out, "<strong>Hi</strong>")
	assert.Contains(t, out, "${name}")
	assert.Equal(t, "<p>plain</p>", md.Render("plain"))
}
