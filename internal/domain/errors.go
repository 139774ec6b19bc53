package domain

import "errors"

// ErrCatalogUnavailable marks a catalog read that failed at the storage
// layer, as opposed to a query that legitimately matched zero programs.
var ErrCatalogUnavailable = errors.New("program catalog unavailable")
