package sanitizer_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/sanitizer"
)

type address struct {
	City string
	Zip  *string
}

type profile struct {
	Name     string
	Tags     []string
	Extra    map[string]string
	Home     *address
	Fixed    [2]string
	Token    string `sanitize:"-"`
	Count    int
	Note     any
	internal string
}

func TestCleanStruct(t *testing.T) {
	t.Parallel()

	zip := " <100> "
	in := profile{
		Name:     "  <Taro>  ",
		Tags:     []string{" a ", "<b>"},
		Extra:    map[string]string{"k": " & "},
		Home:     &address{City: " Tokyo ", Zip: &zip},
		Fixed:    [2]string{" x ", "'y'"},
		Token:    " raw<token> ",
		Count:    3,
		Note:     " note ",
		internal: " untouched ",
	}

	out := sanitizer.Clean(in)

	assert.Equal(t, "&lt;Taro&gt;", out.Name)
	assert.Equal(t, []string{"a", "&lt;b&gt;"}, out.Tags)
	assert.Equal(t, map[string]string{"k": "&amp;"}, out.Extra)
	require.NotNil(t, out.Home)
	assert.Equal(t, "Tokyo", out.Home.City)
	require.NotNil(t, out.Home.Zip)
	assert.Equal(t, "&lt;100&gt;", *out.Home.Zip)
	assert.Equal(t, [2]string{"x", "&#39;y&#39;"}, out.Fixed)
	assert.Equal(t, " raw<token> ", out.Token)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, "note", out.Note)
	assert.Equal(t, " untouched ", out.internal)
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	zip := " 1 "
	in := profile{
		Tags:  []string{" a "},
		Extra: map[string]string{"k": " v "},
		Home:  &address{City: " c ", Zip: &zip},
	}

	_ = sanitizer.Clean(in)

	assert.Equal(t, " a ", in.Tags[0])
	assert.Equal(t, " v ", in.Extra["k"])
	assert.Equal(t, " c ", in.Home.City)
	assert.Equal(t, " 1 ", zip)
}

func TestCleanNilValues(t *testing.T) {
	t.Parallel()

	out := sanitizer.Clean(profile{})
	assert.Nil(t, out.Tags)
	assert.Nil(t, out.Extra)
	assert.Nil(t, out.Home)
	assert.Nil(t, out.Note)

	var nilAny any
	assert.Nil(t, sanitizer.Clean(nilAny))
}

func TestCleanNestedDocument(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"name": " <x> ",
		"list": []any{" a ", 1, map[string]any{"deep": " \"q\" "}},
		"n":    42,
	}

	out := sanitizer.Map(doc)

	assert.Equal(t, "&lt;x&gt;", out["name"])
	list, ok := out["list"].([]any)
	require.True(t, ok)
	assert.Equal(t, "a", list[0])
	assert.Equal(t, 1, list[1])
	assert.Equal(t, map[string]any{"deep": "&#34;q&#34;"}, list[2])
	assert.Equal(t, 42, out["n"])
}

func TestCleanIdempotent(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"a": " <b> & c ",
		"l": []any{"'x'", map[string]any{"y": "&amp;"}},
	}

	once := sanitizer.Map(doc)
	twice := sanitizer.Map(once)
	assert.Equal(t, once, twice)
}

func TestValues(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"name":    {"  Taro "},
		"message": {"<hello>", " second "},
	}

	out := sanitizer.Values(form)

	assert.Equal(t, "Taro", out.Get("name"))
	assert.Equal(t, []string{"&lt;hello&gt;", "second"}, out["message"])
	assert.Equal(t, "  Taro ", form.Get("name"))
}

type node struct {
	Value string
	Next  *node
}

func TestCleanSelfReference(t *testing.T) {
	t.Parallel()

	n := &node{Value: " loop "}
	n.Next = n

	assert.NotPanics(t, func() {
		out := sanitizer.Clean(n)
		assert.Equal(t, "loop", out.Value)
	})
}

func TestCleanDeeplyNested(t *testing.T) {
	t.Parallel()

	var doc any = "  <b>x</b>  "
	for range 200 {
		doc = []any{doc}
	}

	out := sanitizer.Clean(doc)
	for range 200 {
		items, ok := out.([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		out = items[0]
	}

	leaf, ok := out.(string)
	require.True(t, ok)
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt;", leaf)
	assert.False(t, strings.ContainsAny(leaf, "<> "))
}

func TestCleanDeepPointerChain(t *testing.T) {
	t.Parallel()

	head := &node{Value: " <tail> "}
	for range 100 {
		head = &node{Value: " <n> ", Next: head}
	}

	out := sanitizer.Clean(head)
	last := out
	for n := out; n != nil; n = n.Next {
		assert.Equal(t, "&lt;", n.Value[:4])
		last = n
	}
	assert.Equal(t, "&lt;tail&gt;", last.Value)
}

func TestCleanCyclicCollections(t *testing.T) {
	t.Parallel()

	m := map[string]any{"name": " <m> "}
	m["self"] = m

	s := []any{" <s> ", nil}
	s[1] = s

	out := sanitizer.Clean(m)
	assert.Equal(t, "&lt;m&gt;", out["name"])
	inner, ok := out["self"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "&lt;m&gt;", inner["name"])

	outSlice := sanitizer.Clean(s)
	assert.Equal(t, "&lt;s&gt;", outSlice[0])
	again, ok := outSlice[1].([]any)
	require.True(t, ok)
	assert.Equal(t, "&lt;s&gt;", again[0])
}
