package domain

import (
	"time"

	"github.com/google/uuid"
)

// Download запись о скачанном (и, возможно, заархивированном) фото,
// соответствует таблице downloads в бд
type Download struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PhotoID     string    `json:"photo_id" db:"photo_id"`
	AuthorName  string    `json:"author_name" db:"author_name"`
	Description string    `json:"description" db:"description"`
	ViewURL     string    `json:"view_url" db:"view_url"`
	ArchiveURL  string    `json:"archive_url" db:"archive_url"`
	Tracked     bool      `json:"tracked" db:"tracked"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
