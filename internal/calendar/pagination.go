package calendar

// DefaultPageSize: размер страницы истории бронирований по умолчанию.
const DefaultPageSize = 10

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"` // с 1
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	Total      int  `json:"total"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate возвращает срез items для указанной страницы и метаданные.
// page нумеруется с 1. При некорректных значениях используются дефолты.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	pages := (total + pageSize - 1) / pageSize

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		Total:      total,
		HasNext:    end < total,
		HasPrev:    page > 1,
	}
}
