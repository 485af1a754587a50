package domain

import "time"

// MediaType is the stored kind of a media file.
type MediaType string

// MediaType values.
const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
	MediaDoc   MediaType = "DOC"
)

// Media records a stored file. A media either belongs to a Structure or is
// referenced as a Membre's avatar.
type Media struct {
	ID          int64
	FileName    string
	PathName    string
	Type        MediaType
	StructureID *int64
	CreatedAt   time.Time
}

// MediaView is the JSON representation of a Media.
type MediaView struct {
	ID        int64     `json:"id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	Type      MediaType `json:"type"`
	CreatedOn time.Time `json:"created_on"`
}

// View returns the JSON representation of m.
func (m Media) View() MediaView {
	return MediaView{
		ID:        m.ID,
		FileName:  m.FileName,
		FileURL:   m.PathName,
		Type:      m.Type,
		CreatedOn: m.CreatedAt,
	}
}
