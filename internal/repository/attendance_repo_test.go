package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	// 通配符和转义符都要按字面量处理
	assert.Equal(t, "budi", escapeLikePattern("budi"))
	assert.Equal(t, `100\%`, escapeLikePattern("100%"))
	assert.Equal(t, `a\_b`, escapeLikePattern("a_b"))
	assert.Equal(t, `c\\d`, escapeLikePattern(`c\d`))
	assert.Equal(t, `\%\_\\`, escapeLikePattern(`%_\`))
}
