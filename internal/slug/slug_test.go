package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Go", "go"},
		{"spaces", "Machine Learning", "machine-learning"},
		{"underscores", "snake_case_name", "snake-case-name"},
		{"accents folded", "Café Culture", "cafe-culture"},
		{"punctuation stripped", "C++ & Rust!", "c-rust"},
		{"dash runs collapse", "a -- b", "a-b"},
		{"trim dashes", "  --hello--  ", "hello"},
		{"messy whitespace", "A, a, ,A ", "a-a-a"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Make(tc.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Machine Learning", "Café Culture", "a__b  c", "déjà-vu"} {
		once := Make(in)
		assert.Equal(t, once, Make(once), "slug of %q", in)
	}
}

func TestMake_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("abcde ", 20)
	got := Make(long)
	assert.LessOrEqual(t, len(got), 50)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.Equal(t, got, Make(got))
}
