package entity

import "strings"

// Category groups files by extension for filtering and dashboard aggregation.
const (
	CategoryAll    = "all"
	CategoryFolder = "folder"
	CategoryText   = "text"
	CategoryNote   = "note" // listing alias for text
	CategoryImage  = "image"
	CategoryPdf    = "pdf"
)

var (
	TextExtensions  = []string{".txt"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	PdfExtensions   = []string{".pdf"}
)

// CategoryExtensions returns the extension set for a category, or nil when the
// category does not constrain extensions.
func CategoryExtensions(category string) []string {
	switch strings.ToLower(category) {
	case CategoryText, CategoryNote:
		return TextExtensions
	case CategoryImage:
		return ImageExtensions
	case CategoryPdf:
		return PdfExtensions
	default:
		return nil
	}
}

// CategoryOf maps a file extension to its dashboard category, or "" when the
// extension belongs to no category.
func CategoryOf(extension string) string {
	ext := strings.ToLower(extension)
	for _, e := range TextExtensions {
		if ext == e {
			return CategoryText
		}
	}
	for _, e := range ImageExtensions {
		if ext == e {
			return CategoryImage
		}
	}
	for _, e := range PdfExtensions {
		if ext == e {
			return CategoryPdf
		}
	}
	return ""
}
