// Package immich is the HTTP client for the Immich server API.
//
// It covers exactly the surface a sweep run needs: the duplicates listing,
// an authentication preflight, album/tag membership reads, sparse asset
// metadata updates, and bulk deletion. All calls take a context and share
// one configured request timeout; non-2xx responses surface as *APIError,
// except auth rejections which map to ErrUnauthorized.
package immich
