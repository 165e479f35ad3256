package service

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestCleanContent(t *testing.T) {
	policy := bluemonday.StrictPolicy()

	assert.Equal(t, "Hello world", CleanContent(policy, "<p>Hello</p><p>world</p>"))
	assert.Equal(t, "a & b", CleanContent(policy, "a &amp; b"))
	assert.Equal(t, "line one line two", CleanContent(policy, "line   one<br>line\ntwo"))
	assert.Equal(t, "", CleanContent(policy, "<script>alert(1)</script>"))
}
