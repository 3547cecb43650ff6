package sliceedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAll(t *testing.T) {
	assert.Equal(t, []int{0, 4, 8}, FindAll([]byte("ab  ab  ab"), "ab"))
	assert.Equal(t, []int{0}, FindAll([]byte("aaa"), "aa"))
	assert.Empty(t, FindAll([]byte("abc"), ""))
	assert.Empty(t, FindAll([]byte("abc"), "x"))
}

func TestReplaceAllString(t *testing.T) {
	src := []byte("((* if x *))yes((* end *))")
	b := NewBuffer(src)

	assert.Equal(t, 2, b.ReplaceAllString("((*", "{{"))
	assert.Equal(t, 2, b.ReplaceAllString("*))", "}}"))
	assert.Equal(t, "{{ if x }}yes{{ end }}", b.String())

	// The original data is not modified
	assert.Equal(t, "((* if x *))yes((* end *))", string(src))
}

func TestReplaceAllStringSkipsOverlaps(t *testing.T) {
	b := NewBuffer([]byte("a((*))b"))

	assert.Equal(t, 1, b.ReplaceAllString("((*", "<"))
	assert.Equal(t, 0, b.ReplaceAllString("*))", ">"))
	assert.Equal(t, 1, b.ReplaceAllString("b", "c"))
	assert.Equal(t, []byte("a<))c"), b.Bytes())
}
