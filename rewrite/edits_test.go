package rewrite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdits(t *testing.T) {
	source := []byte("hello world")

	tests := []struct {
		name  string
		edits []edit
		want  string
	}{
		{name: "no edits", want: "hello world"},
		{name: "insert", edits: []edit{{start: 5, end: 5, text: ","}}, want: "hello, world"},
		{name: "replace", edits: []edit{{start: 6, end: 11, text: "there"}}, want: "hello there"},
		{name: "delete", edits: []edit{{start: 5, end: 11}}, want: "hello"},
		{
			name:  "unordered",
			edits: []edit{{start: 11, end: 11, text: "!"}, {start: 0, end: 0, text: ">"}},
			want:  ">hello world!",
		},
		{
			name:  "inserts at same offset keep order",
			edits: []edit{{start: 5, end: 5, text: "A"}, {start: 5, end: 5, text: "B"}},
			want:  "helloAB world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyEdits(source, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestApplyEdits_OverlapRejected(t *testing.T) {
	_, err := applyEdits([]byte("hello world"), []edit{
		{start: 0, end: 5, text: "bye"},
		{start: 3, end: 7, text: "x"},
	})

	assert.True(t, errors.Is(err, ErrOverlappingEdits))
}
