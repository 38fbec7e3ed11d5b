package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Pagination{Page: 0, Limit: 0}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = Pagination{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.Limit)
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 2, Limit: 10}, 25)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(25), info.TotalItems)
	assert.Equal(t, 10, info.ItemsPerPage)

	info = BuildPageInfo(Pagination{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, info.TotalPages)
}
