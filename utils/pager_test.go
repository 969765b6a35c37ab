package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginateTotalPages(t *testing.T) {
	tests := []struct {
		count      int
		size       int
		totalPages int
		lastLen    int
	}{
		{0, 10, 1, 0},
		{1, 10, 1, 1},
		{9, 10, 1, 9},
		{10, 10, 1, 10},
		{11, 10, 2, 1},
		{13, 10, 2, 3},
		{20, 10, 2, 10},
		{21, 10, 3, 1},
		{7, 3, 3, 1},
		{100, 7, 15, 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d size=%d", tt.count, tt.size), func(t *testing.T) {
			items := sequence(tt.count)
			first := Paginate(items, tt.size, 1)
			assert.Equal(t, tt.totalPages, first.TotalPages)
			assert.Equal(t, tt.count, first.TotalItems)

			last := Paginate(items, tt.size, tt.totalPages)
			assert.Len(t, last.Items, tt.lastLen)
		})
	}
}

func TestPaginateThirteenPostsPageSizeTen(t *testing.T) {
	items := sequence(13)

	page1 := Paginate(items, 10, 1)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 1, page1.Number)
	assert.Equal(t, 2, page1.TotalPages)
	assert.True(t, page1.HasNext())
	assert.False(t, page1.HasPrev())

	page2 := Paginate(items, 10, 2)
	assert.Len(t, page2.Items, 3)
	assert.Equal(t, []int{11, 12, 13}, page2.Items)
	assert.False(t, page2.HasNext())
	assert.True(t, page2.HasPrev())
}

func TestPaginateClamping(t *testing.T) {
	items := sequence(13)

	// Below range defaults to the first page.
	assert.Equal(t, 1, Paginate(items, 10, 0).Number)
	assert.Equal(t, 1, Paginate(items, 10, -5).Number)

	// Past the end clamps to the last page instead of failing.
	beyond := Paginate(items, 10, 99)
	assert.Equal(t, 2, beyond.Number)
	assert.Len(t, beyond.Items, 3)
}

func TestPaginateWindowContents(t *testing.T) {
	items := sequence(30)
	page := Paginate(items, 10, 2)
	assert.Equal(t, sequence(30)[10:20], page.Items)
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]string{}, 10, 3)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestPaginateBadPageSizeFallsBack(t *testing.T) {
	page := Paginate(sequence(25), 0, 1)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Len(t, page.Items, DefaultPageSize)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-2"))
	assert.Equal(t, 7, ParsePage("7"))
}
