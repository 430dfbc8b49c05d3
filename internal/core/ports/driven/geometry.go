package driven

import "github.com/custodia-labs/margin/internal/core/domain"

// PageLocator maps view-space pointer locations onto pages.
// It is implemented by whatever lays pages out on screen.
type PageLocator interface {
	// PageForPoint returns the page under p, or the nearest page when p
	// falls between or outside pages. ok is false only for an empty layout.
	PageForPoint(p domain.Point) (pageIndex int, ok bool)

	// ConvertToPageSpace converts a view-space point into the coordinate
	// space of the given page.
	ConvertToPageSpace(p domain.Point, pageIndex int) domain.Point
}
