package domain

import "errors"

var (
	// ErrEngineUnavailable signals a failed connection to the search engine.
	ErrEngineUnavailable = errors.New("search engine unavailable")
	// ErrDocumentNotFound signals a lookup that matched no document.
	ErrDocumentNotFound = errors.New("document not found")
)
