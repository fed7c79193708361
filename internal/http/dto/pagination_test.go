package dto

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageQuery(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		wantPage int
		wantSize int
	}{
		{"defaults", "/v1/users", 1, 5},
		{"explicit", "/v1/users?page=3&page_size=20", 3, 20},
		{"page cero se ignora", "/v1/users?page=0", 1, 5},
		{"page negativa se ignora", "/v1/users?page=-2", 1, 5},
		{"page_size cero se ignora", "/v1/users?page_size=0", 1, 5},
		{"page_size sobre el tope se recorta", "/v1/users?page_size=500", 1, 100},
		{"basura se ignora", "/v1/users?page=abc&page_size=xyz", 1, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ParsePageQuery(httptest.NewRequest("GET", tc.url, nil))
			assert.Equal(t, tc.wantPage, q.Page)
			assert.Equal(t, tc.wantSize, q.Size)
		})
	}
}

func TestNewPaged_TotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{11, 5, 3},
		{100, 100, 1},
	}
	for _, tc := range cases {
		p := NewPaged([]int{}, tc.total, PageQuery{Page: 1, Size: tc.size})
		assert.Equal(t, tc.want, p.TotalPages, "total=%d size=%d", tc.total, tc.size)
	}
}

func TestPaged_WireKeys(t *testing.T) {
	b, err := json.Marshal(NewPaged([]int{1, 2}, 2, PageQuery{Page: 1, Size: 5}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"items", "total_count", "page", "page_size", "total_pages"} {
		assert.Contains(t, m, k)
	}
}
