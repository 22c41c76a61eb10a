package request

// PaginatedRequest pages the admin booking listing.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return 10
	}
	if p.PerPage > 100 {
		return 100
	}
	return p.PerPage
}

// Bounds returns the [start, end) window of this page over total items.
// Pages past the end yield an empty window, however large Page is.
func (p PaginatedRequest) Bounds(total int) (start, end int) {
	limit := p.Limit()
	if p.Page < 1 || p.Page-1 > total/limit {
		return total, total
	}

	start = min((p.Page-1)*limit, total)
	end = min(start+limit, total)
	return start, end
}
