package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindJSONArray(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "bare array", in: `[{"name":"Soup"}]`, want: `[{"name":"Soup"}]`, wantOK: true},
		{name: "fenced", in: "```json\n[{\"name\":\"Soup\"}]\n```", want: `[{"name":"Soup"}]`, wantOK: true},
		{name: "prose around", in: `Here you go: [{"name":"Soup"}] enjoy`, want: `[{"name":"Soup"}]`, wantOK: true},
		{name: "first to last bracket", in: `a [1] b [2] c`, want: `[1] b [2]`, wantOK: true},
		{name: "empty array", in: `[]`, want: `[]`, wantOK: true},
		{name: "no brackets", in: `I could not find any items.`, wantOK: false},
		{name: "reversed brackets", in: `] nope [`, wantOK: false},
		{name: "object only", in: `{"name":"Soup"}`, wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FindJSONArray(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
