package types

// Filter - параметры списка из query: поиск и постраничный вывод.
// Пример: /admin/packages?search=yoga&page=2&per_page=20
type Filter struct {
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Page   int    `json:"page"`
}
