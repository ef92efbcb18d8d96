package unsplash

// Отдельная структура для URL-ов
type UnsplashPhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// Ссылки фото: download_location используется для трекинга скачиваний
type UnsplashPhotoLinks struct {
	Self             string `json:"self"`
	HTML             string `json:"html"`
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"`
}

type UnsplashUserLinks struct {
	Self string `json:"self"`
	HTML string `json:"html"`
}

// Отдельная структура для пользователя
type UnsplashUser struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Name     string            `json:"name"`
	Links    UnsplashUserLinks `json:"links"`
}

// description и alt_description приходят как null, поэтому указатели
type UnsplashPhotoResponse struct {
	ID             string  `json:"id"`
	Description    *string `json:"description"`
	AltDescription *string `json:"alt_description"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`

	URLs  UnsplashPhotoURLs  `json:"urls"`
	Links UnsplashPhotoLinks `json:"links"`
	User  UnsplashUser       `json:"user"`
}

// UnsplashSearchResponse для ответа /search/photos
type UnsplashSearchResponse struct {
	Total      int                     `json:"total"`
	TotalPages int                     `json:"total_pages"`
	Results    []UnsplashPhotoResponse `json:"results"`
}
