package serverutils

// Pagination describes the page window of a list response.
type Pagination struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	Pages           int   `json:"pages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagination computes page metadata from the 1-indexed page, the page size
// and the total row count.
func NewPagination(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Pagination{
		Page:            page,
		Limit:           limit,
		Total:           total,
		Pages:           pages,
		HasNextPage:     int64(page*limit) < total,
		HasPreviousPage: page > 1,
	}
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is the uniform JSON envelope for every endpoint.
type Response[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func PaginatedResponse[T any](message string, data T, pagination *Pagination) Response[T] {
	return Response[T]{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	}
}

func ErrorResponse(code int, message string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	}
}
