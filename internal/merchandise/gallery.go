package merchandise

import "github.com/dukerupert/vitrine/internal/domain"

const defaultMediaAlt = "Product image"

// ModelHints are presentation hints for 3-D model media.
type ModelHints struct {
	AutoRotate                 bool   `json:"autoRotate"`
	AR                         bool   `json:"ar"`
	Loading                    string `json:"loading"`
	DisableZoom                bool   `json:"disableZoom"`
	InteractionPromptThreshold string `json:"interactionPromptThreshold"`
}

// GalleryItem is a media item with its grid placement.
type GalleryItem struct {
	Media domain.Media  `json:"media"`
	Image *domain.Image `json:"image,omitempty"`
	Span  int           `json:"span"`
	Model *ModelHints   `json:"model,omitempty"`
}

// LayoutGallery assigns grid spans by position: every third item starting at
// index 0 spans two tracks, the rest span one.
func LayoutGallery(media []domain.Media) []GalleryItem {
	items := make([]GalleryItem, 0, len(media))
	for i, m := range media {
		item := GalleryItem{Media: m, Span: 1}
		if i%3 == 0 {
			item.Span = 2
		}

		if m.PreviewImage != nil {
			img := *m.PreviewImage
			img.AltText = m.Alt
			if img.AltText == "" {
				img.AltText = defaultMediaAlt
			}
			item.Image = &img
		}

		if m.ContentType == domain.MediaModel3D {
			item.Model = &ModelHints{
				AutoRotate:                 true,
				AR:                         true,
				Loading:                    "eager",
				DisableZoom:                true,
				InteractionPromptThreshold: "0",
			}
		}

		items = append(items, item)
	}
	return items
}
