package domain

import "errors"

var (
	ErrInvalidDocumentRef = errors.New("invalid document reference")
	ErrDocumentLoad       = errors.New("document could not be loaded")
	ErrUnsupportedFormat  = errors.New("document is neither a PDF nor a decodable image")
	ErrOCRFailed          = errors.New("ocr failed")
	ErrLLMUnavailable     = errors.New("llm request failed")
	ErrUnauthorized       = errors.New("unauthorized")
)
