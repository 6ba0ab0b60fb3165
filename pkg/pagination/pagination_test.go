package pagination

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	liberrors "github.com/tendant/simple-library/pkg/errors"
)

func TestToPageRequest(t *testing.T) {
	tests := []struct {
		name      string
		offset    int
		limit     int
		wantIndex int
		wantSize  int
	}{
		{"first page", 0, 20, 0, 20},
		{"second page", 5, 5, 1, 5},
		{"snaps to page boundary", 7, 5, 1, 5},
		{"offset below limit", 3, 10, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ToPageRequest(tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, req.Index)
			assert.Equal(t, tt.wantSize, req.Size)
		})
	}
}

func TestToPageRequestRejectsDegenerateInput(t *testing.T) {
	for _, tc := range []struct{ offset, limit int }{{0, 0}, {10, -1}, {-1, 5}} {
		_, err := ToPageRequest(tc.offset, tc.limit)
		require.Error(t, err)
		assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeInvalidInput))
	}
}

func TestFifteenItemsOffsetFiveLimitFive(t *testing.T) {
	items := make([]string, 15)
	for i := range items {
		items[i] = "item-" + strconv.Itoa(i+1)
	}

	req, err := ToPageRequest(5, 5)
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Index: 1, Size: 5}, req)

	page := ToPageResponse(Slice(items, req), int64(len(items)), 5, 5)
	assert.Equal(t, 5, page.Offset)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, int64(15), page.TotalCount)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "item-6", page.Items[0])
	assert.Equal(t, "item-10", page.Items[4])
}

func TestSlicePastEnd(t *testing.T) {
	assert.Empty(t, Slice([]int{1, 2, 3}, PageRequest{Index: 2, Size: 5}))
	assert.Equal(t, []int{3}, Slice([]int{1, 2, 3}, PageRequest{Index: 1, Size: 2}))
}

func TestToPageResponseNeverNilItems(t *testing.T) {
	page := ToPageResponse[int](nil, 0, 0, 10)
	assert.NotNil(t, page.Items)
}

func TestMap(t *testing.T) {
	page := ToPageResponse([]int{1, 2}, 7, 2, 2)
	out := Map(page, func(i int) string { return strconv.Itoa(i * 10) })
	assert.Equal(t, []string{"10", "20"}, out.Items)
	assert.Equal(t, int64(7), out.TotalCount)
	assert.Equal(t, 2, out.Offset)
}

func TestParseParams(t *testing.T) {
	d := Defaults{Limit: 20, MaxLimit: 100}

	r := httptest.NewRequest("GET", "/api/books", nil)
	offset, limit, err := ParseParams(r, d)
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 20, limit)

	r = httptest.NewRequest("GET", "/api/books?offset=10&limit=500", nil)
	offset, limit, err = ParseParams(r, d)
	require.NoError(t, err)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 100, limit)

	r = httptest.NewRequest("GET", "/api/books?limit=abc", nil)
	_, _, err = ParseParams(r, d)
	assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeInvalidInput))
}
