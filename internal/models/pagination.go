package models

type PaginatedResponse struct {
	Data     any `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NormalizePage clamps page to >= 1 and size to 1..maxSize.
func NormalizePage(page, size, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > maxSize {
		size = maxSize
	}

	return page, size
}
