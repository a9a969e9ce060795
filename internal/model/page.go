package model

// Meta 表示分页元信息。
type Meta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Pages    int   `json:"pages"`
	Total    int64 `json:"total"`
}

// Paginate 表示分页结果。
type Paginate[T any] struct {
	Meta   Meta `json:"meta"`
	Result []T  `json:"result"`
}

// NewPaginate 根据总数计算页数并组装结果。
func NewPaginate[T any](page, size int, total int64, result []T) Paginate[T] {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Paginate[T]{
		Meta:   Meta{Page: page, PageSize: size, Pages: pages, Total: total},
		Result: result,
	}
}

// Envelope 表示后端统一响应包装。
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	Data       T      `json:"data,omitempty"`
}
