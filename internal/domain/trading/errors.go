package trading

import "errors"

var (
	// ErrUnknownRegion indicates a route names a region missing from the
	// configured region map. The route is skipped, not the scan.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrInvalidFilters indicates acceptance thresholds that cannot be
	// applied. Rejected before any network activity.
	ErrInvalidFilters = errors.New("invalid filters")

	// ErrNoRoutes indicates a scan was requested with no usable routes.
	ErrNoRoutes = errors.New("no routes to scan")
)
