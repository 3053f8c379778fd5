package course

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	c := NewCatalog(SampleCourses()...)

	testCases := map[string]struct {
		term string
		ids  []uint64
	}{
		"empty":          {term: "", ids: []uint64{1, 2, 3}},
		"title":          {term: "react", ids: []uint64{2}},
		"category":       {term: "DEVOPS", ids: []uint64{3}},
		"common prefix":  {term: "curso", ids: []uint64{1, 2, 3}},
		"no match":       {term: "cobol", ids: []uint64{}},
		"accented match": {term: "programação", ids: []uint64{1}},
	}

	for tn, tc := range testCases {
		got := c.Search(tc.term)
		ids := make([]uint64, 0, len(got))
		for _, d := range got {
			ids = append(ids, d.ID)
		}
		assert.Equal(t, tc.ids, ids, tn)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]Details, 25)
	for i := range items {
		items[i] = Details{ID: uint64(i + 1)}
	}

	testCases := map[string]struct {
		page, perPage int
		wantLen       int
		wantPage      int
		wantPerPage   int
		totalPages    int
		next, prev    *int
	}{
		"first page":       {page: 1, perPage: 10, wantLen: 10, wantPage: 1, wantPerPage: 10, totalPages: 3, next: intp(2)},
		"middle page":      {page: 2, perPage: 10, wantLen: 10, wantPage: 2, wantPerPage: 10, totalPages: 3, next: intp(3), prev: intp(1)},
		"last page":        {page: 3, perPage: 10, wantLen: 5, wantPage: 3, wantPerPage: 10, totalPages: 3, prev: intp(2)},
		"past the end":     {page: 9, perPage: 10, wantLen: 0, wantPage: 9, wantPerPage: 10, totalPages: 3, prev: intp(8)},
		"page below one":   {page: -4, perPage: 10, wantLen: 10, wantPage: 1, wantPerPage: 10, totalPages: 3, next: intp(2)},
		"per_page zero":    {page: 1, perPage: 0, wantLen: 10, wantPage: 1, wantPerPage: 10, totalPages: 3, next: intp(2)},
		"per_page too big": {page: 1, perPage: 101, wantLen: 10, wantPage: 1, wantPerPage: 10, totalPages: 3, next: intp(2)},
		"per_page max":     {page: 1, perPage: 100, wantLen: 25, wantPage: 1, wantPerPage: 100, totalPages: 1},
	}

	for tn, tc := range testCases {
		got, p := Paginate(items, tc.page, tc.perPage)
		assert.Len(t, got, tc.wantLen, tn)
		assert.Equal(t, tc.wantPage, p.Page, tn)
		assert.Equal(t, tc.wantPerPage, p.PerPage, tn)
		assert.Equal(t, 25, p.Total, tn)
		assert.Equal(t, tc.totalPages, p.TotalPages, tn)
		assert.Equal(t, tc.next, p.NextPage, tn)
		assert.Equal(t, tc.prev, p.PrevPage, tn)
		assert.Equal(t, tc.next != nil, p.HasNext, tn)
		assert.Equal(t, tc.prev != nil, p.HasPrev, tn)
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, p := Paginate(nil, 1, 10)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestKanban(t *testing.T) {
	c := NewCatalog(SampleCourses()...)
	c.Put(Details{ID: 4, Title: "Curso de Go", Category: "Backend", Status: "Arquivado"})

	b := c.Kanban()
	require.Len(t, b.Backlog, 1)
	require.Len(t, b.InDevelopment, 1)
	require.Len(t, b.Published, 1)
	assert.Equal(t, "Curso de Docker", b.Backlog[0].Title)
	assert.Equal(t, "Curso de React", b.InDevelopment[0].Title)
	assert.Equal(t, "Curso de Python", b.Published[0].Title)

	assert.Equal(t, 1, c.CountByStatus(StatusPublished))
	assert.Equal(t, 4, c.Len())
}

func TestPutReplaces(t *testing.T) {
	c := NewCatalog(SampleCourses()...)
	c.Put(Details{ID: 2, Title: "Curso de Vue", Category: "Frontend", Status: StatusPublished})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "Curso de Vue", c.List()[1].Title)
	assert.Equal(t, 2, c.CountByStatus(StatusPublished))
}

func TestHandlerList(t *testing.T) {
	mx := RegisterAPI(Options{Root: "/api/cursos", Catalog: NewCatalog(SampleCourses()...)})

	testCases := map[string]struct {
		query   string
		total   int
		perPage int
		search  string
	}{
		"defaults":        {query: "", total: 3, perPage: 10},
		"search":          {query: "?search=python", total: 1, perPage: 10, search: "python"},
		"bad numbers":     {query: "?page=abc&per_page=xyz", total: 3, perPage: 10},
		"small page size": {query: "?per_page=2", total: 3, perPage: 2},
	}

	for tn, tc := range testCases {
		rec := httptest.NewRecorder()
		mx.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cursos"+tc.query, nil))
		require.Equal(t, http.StatusOK, rec.Code, tn)

		var out listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), tn)
		assert.Equal(t, tc.total, out.Pagination.Total, tn)
		assert.Equal(t, tc.perPage, out.Pagination.PerPage, tn)
		assert.Equal(t, tc.search, out.Search, tn)
	}
}

func TestHandlerKanban(t *testing.T) {
	mx := RegisterAPI(Options{Root: "/api/cursos/", Catalog: NewCatalog(SampleCourses()...)})

	rec := httptest.NewRecorder()
	mx.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cursos/kanban", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string][]Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	for _, k := range []string{"backlog", "em_desenvolvimento", "veiculado"} {
		assert.Len(t, out[k], 1, fmt.Sprintf("column %s", k))
	}
}

func intp(n int) *int { return &n }
