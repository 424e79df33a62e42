package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[{\"title\":\"a\"}]\n```", `[{"title":"a"}]`},
		{"plain fence", "```\n[1,2]\n```", "[1,2]"},
		{"no fence", `[{"title":"a"}]`, `[{"title":"a"}]`},
		{"fence with preamble", "Here you go:\n```json\n[]\n```", "[]"},
		{"unterminated fence", "```json\n[]", "[]"},
		{"whitespace only", "  \n ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFence(tc.in))
		})
	}
}
