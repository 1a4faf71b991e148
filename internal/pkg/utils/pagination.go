package utils

// Pagination - метаданные страницы результатов
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Paginate возвращает границы среза [start, end) и метаданные.
// page и limit должны быть >= 1; страница за пределами данных даёт пустой срез.
func Paginate(total, page, limit int) (start, end int, meta Pagination) {
	totalPages := (total + limit - 1) / limit

	// номер страницы сравнивается до умножения: (page-1)*limit может переполнить int
	start, end = total, total
	if page-1 < totalPages {
		start = (page - 1) * limit
		end = start + limit
		if end > total {
			end = total
		}
	}

	meta = Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    end < total,
		HasPrev:    page > 1,
	}
	return start, end, meta
}
