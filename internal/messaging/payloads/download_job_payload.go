package payloads

// DownloadJobPayload данные, необходимые воркеру для трекинга скачивания
// и архивации полноразмерного изображения через RabbitMQ.
type DownloadJobPayload struct {
	PhotoID          string `json:"photo_id"`
	DownloadLocation string `json:"download_location"`
	FullURL          string `json:"full_url"`
	ViewURL          string `json:"view_url"`
	AuthorName       string `json:"author_name"`
	Description      string `json:"description"`

	// Redelivered выставляется потребителем для повторной доставки, в сообщение не входит
	Redelivered bool `json:"-"`
}
