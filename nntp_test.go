package nntp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntran/nntp/wire"
)

func TestMessageIDString(t *testing.T) {
	tests := []struct {
		in       MessageID
		expected string
	}{
		{"x@y", "<x@y>"},
		{"<x@y>", "<x@y>"},
		{"<x@y", "<x@y>"},
		{"x@y>", "<x@y>"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.in.String())
	}
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "5-", Range{Low: 5}.String())
	assert.Equal(t, "5", Range{Low: 5, High: 5}.String())
	assert.Equal(t, "5-10", Range{Low: 5, High: 10}.String())
}

func TestParseGroup(t *testing.T) {
	resp := &Response{Status: wire.StatusGroupSelected, StatusText: "1234 3000234 3002322 misc.test"}

	g, err := ParseGroup(resp)
	require.NoError(t, err)
	assert.Equal(t, Group{Name: "misc.test", Count: 1234, Low: 3000234, High: 3002322}, g)
}

func TestParseGroupErrors(t *testing.T) {
	_, err := ParseGroup(&Response{Status: 411, StatusText: "no such group"})
	assert.Error(t, err)

	_, err = ParseGroup(&Response{Status: wire.StatusGroupSelected, StatusText: "1234 3000234"})
	assert.Error(t, err)

	_, err = ParseGroup(&Response{Status: wire.StatusGroupSelected, StatusText: "x y z misc.test"})
	assert.Error(t, err)
}
