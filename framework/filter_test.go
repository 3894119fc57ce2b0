package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFilters(t *testing.T) {
	run, err := NewRegexList("^matchers", "spies")
	require.NoError(t, err)
	skip, err := NewRegexList("XIt")
	require.NoError(t, err)

	f := RegexFilters{MustMatch: run, MustNotMatch: skip}
	assert.True(t, f.IsDefined())
	assert.True(t, f.AsFilter(testID("matchers", "are functions")))
	assert.True(t, f.AsFilter(testID("about", "spies")))
	assert.False(t, f.AsFilter(testID("about", "matchers")))
	assert.False(t, f.AsFilter(testID("matchers", "XIt is pending")))

	assert.True(t, RegexFilters{}.AsFilter(testID("anything")))
	assert.False(t, RegexFilters{}.IsDefined())
}

func TestRegexListFlagValue(t *testing.T) {
	var r RegexList
	require.NoError(t, r.Set("a+"))
	require.NoError(t, r.Set("b"))
	assert.Equal(t, `"a+" or "b"`, r.String())
	assert.Equal(t, "regex", r.Type())
	assert.Error(t, r.Set("("))

	other, err := NewRegexList("c")
	require.NoError(t, err)
	r.Append(other)
	assert.True(t, r.AnyMatch("c"))

	_, err = NewRegexList("ok", "[")
	assert.Error(t, err)
}

func TestRegexFiltersDescribe(t *testing.T) {
	var buf bytes.Buffer
	RegexFilters{}.Describe(&buf)
	assert.Empty(t, buf.String())

	skip, err := NewRegexList("slow")
	require.NoError(t, err)
	RegexFilters{MustNotMatch: skip}.Describe(&buf)
	assert.Contains(t, buf.String(), `exclude any matching "slow"`)
	assert.NotContains(t, buf.String(), "not matching")
}

func TestTestIDNames(t *testing.T) {
	id := testID("suite", "nested", "spec")
	assert.Equal(t, "suite/nested/spec", id.String())
	assert.Equal(t, "suite nested spec", id.FullName())
	assert.Equal(t, "spec", id.Description())

	child := id.plus("more")
	assert.Equal(t, []string{"suite", "nested", "spec"}, id.Path)
	assert.Equal(t, "suite nested spec more", child.FullName())
}
