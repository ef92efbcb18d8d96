package domain

// PhotoKind различает обычные результаты API и персональные результаты-подмены.
type PhotoKind string

const (
	PhotoKindStandard PhotoKind = "standard"
	PhotoKindPersonal PhotoKind = "personal"
)

// PhotoURLs три варианта изображения разного размера
type PhotoURLs struct {
	Small   string `json:"small"`
	Regular string `json:"regular"`
	Full    string `json:"full"`
}

// PhotoLinks ссылка для трекинга скачивания и каноническая ссылка на страницу фото
type PhotoLinks struct {
	DownloadLocation string `json:"download_location"`
	HTML             string `json:"html"`
}

// Author автор фотографии
type Author struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// Photo представляет один элемент результата поиска.
// ID уникален в пределах одного набора результатов.
// Subtitle заполняется только для PhotoKindPersonal.
type Photo struct {
	ID             string     `json:"id"`
	Kind           PhotoKind  `json:"kind"`
	URLs           PhotoURLs  `json:"urls"`
	Links          PhotoLinks `json:"links"`
	Author         Author     `json:"author"`
	AltDescription string     `json:"alt_description,omitempty"`
	Description    string     `json:"description,omitempty"`
	Subtitle       string     `json:"subtitle,omitempty"`
}

// IsPersonal сообщает, получено ли фото из слоя подмены, а не из внешнего API.
func (p Photo) IsPersonal() bool {
	return p.Kind == PhotoKindPersonal
}

// SearchPage одна страница результатов поиска с метаданными пагинации
type SearchPage struct {
	Results    []Photo
	Total      int
	TotalPages int
}
