package repository

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Page is the page/limit pair sent by the admin tables.
type Page struct {
	Page  int
	Limit int
}

func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
