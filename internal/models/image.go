package models

import "time"

// ImageRef is a reference to an asset held by the remote media store.
// PublicID is the store's canonical handle and is what a later delete
// call needs; URL is the derived public link; AltText is taken from the
// uploaded filename with its extension stripped.
type ImageRef struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"public_id" validate:"required"`
	AltText  string `json:"altText" validate:"required"`
}

// ImageList is stored as a JSON column via GORM's json serializer.
type ImageList []ImageRef

// IndexOf returns the position of the image with the given public id,
// or -1 if the list does not contain it.
func (l ImageList) IndexOf(publicID string) int {
	for i, img := range l {
		if img.PublicID == publicID {
			return i
		}
	}
	return -1
}

// PublicIDs returns the public ids of all images in order.
func (l ImageList) PublicIDs() []string {
	ids := make([]string, 0, len(l))
	for _, img := range l {
		ids = append(ids, img.PublicID)
	}
	return ids
}

// PendingUpload is a ledger row for an asset that was uploaded to the
// media store but not yet attached to any entity. Rows are removed when
// the asset is attached or explicitly deleted; a background sweeper
// reclaims assets whose rows outlive the configured TTL.
type PendingUpload struct {
	PublicID  string    `json:"public_id" gorm:"primaryKey;type:varchar(255)"`
	URL       string    `json:"url"`
	Folder    string    `json:"folder" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"`
}
