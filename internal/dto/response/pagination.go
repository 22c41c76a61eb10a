package response

// PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(page, perPage, total int) *PaginationMeta {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	return &PaginationMeta{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
