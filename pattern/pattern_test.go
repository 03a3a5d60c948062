// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package pattern

import (
	"regexp"
	"testing"

	qt "github.com/frankban/quicktest"
)

var regexpTests = []struct {
	pat  string
	mode Mode
	want string

	mustMatch    []string
	mustNotMatch []string
}{
	{pat: `foo`, want: `(?s)foo`},
	{pat: `foo*`, want: `(?s)foo.*`},
	{
		pat: `*foo`, mode: Filenames | EntireString, want: `(?s)^([^/.][^/]*)?foo$`,
		mustMatch:    []string{"foo", "prefix-foo"},
		mustNotMatch: []string{"foo-suffix", "/prefix/foo", ".foo"},
	},
	{
		pat: `**`, mode: Filenames | EntireString,
		mustMatch:    []string{"/foo", "/prefix/foo", "/a/b/c/foo"},
		mustNotMatch: []string{"/.prefix/foo"},
	},
	{
		pat: `[!abc]`, mode: EntireString,
		mustMatch:    []string{"d"},
		mustNotMatch: []string{"a", "b", "c"},
	},
	{
		pat: `[[:digit:]]`, mode: EntireString,
		mustMatch:    []string{"3"},
		mustNotMatch: []string{"x"},
	},
}

func TestRegexp(t *testing.T) {
	t.Parallel()
	for _, test := range regexpTests {
		test := test
		t.Run("", func(t *testing.T) {
			t.Parallel()
			got, err := Regexp(test.pat, test.mode)
			qt.Assert(t, err, qt.IsNil)
			if test.want != "" {
				qt.Assert(t, got, qt.Equals, test.want)
			}
			re, err := regexp.Compile(got)
			qt.Assert(t, err, qt.IsNil)
			for _, m := range test.mustMatch {
				qt.Assert(t, re.MatchString(m), qt.Equals, true, qt.Commentf("pattern %q vs %q", test.pat, m))
			}
			for _, m := range test.mustNotMatch {
				qt.Assert(t, re.MatchString(m), qt.Equals, false, qt.Commentf("pattern %q vs %q", test.pat, m))
			}
		})
	}
}

func TestHasMeta(t *testing.T) {
	t.Parallel()
	qt.Assert(t, HasMeta("foo"), qt.Equals, false)
	qt.Assert(t, HasMeta("foo*"), qt.Equals, true)
	qt.Assert(t, HasMeta(`foo\*`), qt.Equals, false)
	qt.Assert(t, HasMeta("foo[abc]"), qt.Equals, true)
}

func TestSyntaxError(t *testing.T) {
	t.Parallel()
	_, err := Regexp("[abc", 0)
	qt.Assert(t, err, qt.Not(qt.IsNil))
	_, ok := err.(*SyntaxError)
	qt.Assert(t, ok, qt.Equals, true)
}
