package course // import "github.com/CarlosBertoldo/acervo-educacional/course"

import (
	"sort"
	"strings"
	"sync"
)

// Course workflow states.
const (
	StatusBacklog       = "Backlog"
	StatusInDevelopment = "Em Desenvolvimento"
	StatusPublished     = "Veiculado"
)

// Pagination limits.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Details describes a course.
type Details struct {
	ID       uint64 `json:"id"`
	Title    string `json:"titulo"`
	Category string `json:"categoria"`
	Status   string `json:"status"`
}

// SampleCourses returns the built-in course list.
func SampleCourses() []Details {
	return []Details{
		{ID: 1, Title: "Curso de Python", Category: "Programação", Status: StatusPublished},
		{ID: 2, Title: "Curso de React", Category: "Frontend", Status: StatusInDevelopment},
		{ID: 3, Title: "Curso de Docker", Category: "DevOps", Status: StatusBacklog},
	}
}

// Catalog is a read-mostly list of courses kept in id order.
type Catalog struct {
	mu      sync.RWMutex
	courses []Details
}

// NewCatalog creates a catalog holding courses.
func NewCatalog(courses ...Details) *Catalog {
	c := &Catalog{}
	for _, d := range courses {
		c.Put(d)
	}
	return c
}

// Put adds or replaces the course with the same id.
func (c *Catalog) Put(d Details) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID == d.ID {
			c.courses[i] = d
			return
		}
	}
	c.courses = append(c.courses, d)
	sort.Slice(c.courses, func(i, j int) bool { return c.courses[i].ID < c.courses[j].ID })
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.courses)
}

// List returns a copy of every course.
func (c *Catalog) List() []Details {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Details, len(c.courses))
	copy(out, c.courses)
	return out
}

// CountByStatus returns how many courses are in status.
func (c *Catalog) CountByStatus(status string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for i := range c.courses {
		if c.courses[i].Status == status {
			n++
		}
	}
	return n
}

// Search returns the courses whose title or category contains term,
// ignoring case. An empty term matches everything.
func (c *Catalog) Search(term string) []Details {
	all := c.List()
	if term == "" {
		return all
	}
	term = strings.ToLower(term)
	out := make([]Details, 0, len(all))
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Title), term) || strings.Contains(strings.ToLower(d.Category), term) {
			out = append(out, d)
		}
	}
	return out
}

// Board groups courses by workflow state.
type Board struct {
	Backlog       []Details `json:"backlog"`
	InDevelopment []Details `json:"em_desenvolvimento"`
	Published     []Details `json:"veiculado"`
}

// Kanban returns the courses grouped by status. Courses in an unknown
// status are left out.
func (c *Catalog) Kanban() Board {
	b := Board{Backlog: []Details{}, InDevelopment: []Details{}, Published: []Details{}}
	for _, d := range c.List() {
		switch d.Status {
		case StatusBacklog:
			b.Backlog = append(b.Backlog, d)
		case StatusInDevelopment:
			b.InDevelopment = append(b.InDevelopment, d)
		case StatusPublished:
			b.Published = append(b.Published, d)
		}
	}
	return b
}

// Pagination describes one page of a result list.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	NextPage   *int `json:"next_page"`
	PrevPage   *int `json:"prev_page"`
}

// Paginate clamps page and perPage and slices items accordingly. Pages
// start at 1; perPage outside 1..MaxPerPage becomes DefaultPerPage. A
// page past the end yields an empty slice.
func Paginate(items []Details, page, perPage int) ([]Details, Pagination) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	total := len(items)
	p := Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}

	start := (page - 1) * perPage
	if start >= total {
		return []Details{}, p
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return items[start:end], p
}
