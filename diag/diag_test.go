package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_OrderAndCounts(t *testing.T) {
	var l Log
	l.Info("a")
	l.Warning("b")
	l.Error("c")
	l.Warning("d")

	assert.Equal(t, []Diagnostic{
		{Info, "a"}, {Warning, "b"}, {Error, "c"}, {Warning, "d"},
	}, l.Entries)
	assert.Equal(t, 2, l.Count(Warning))
	assert.Len(t, l.Filter(Error), 1)
}

func TestTee(t *testing.T) {
	var a, b Log
	s := Tee(&a, nil, &b)
	s.Warning("w")

	assert.Equal(t, 1, a.Count(Warning))
	assert.Equal(t, 1, b.Count(Warning))
}

func TestOnce(t *testing.T) {
	var l Log
	o := Once{Sink: &l}
	o.Info("barcode", "first")
	o.Info("barcode", "second")
	o.Info("media", "third")

	assert.Equal(t, []Diagnostic{{Info, "first"}, {Info, "third"}}, l.Entries)
}
