package constants

// DocumentStatus is the outcome of processing one input document.
type DocumentStatus string

const (
	DocumentStatusOK      DocumentStatus = "OK"
	DocumentStatusFailed  DocumentStatus = "FAILED"
	DocumentStatusSkipped DocumentStatus = "SKIPPED" // unsupported extension
)

// Acquisition methods, in the order the acquirer tries them.
const (
	MethodPDFText  = "pdf-text"
	MethodPDFOCR   = "pdf-ocr"
	MethodTextFile = "text-file"
)
