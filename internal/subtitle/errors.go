package subtitle

import "errors"

var (
	// a time field could not be read; the whole document is rejected
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// a mandatory container element is missing
	ErrMalformedDocument = errors.New("malformed document")

	// format token not in the supported set
	ErrUnrecognizedFormat = errors.New("unrecognized format")

	// the format can be parsed but not written
	ErrExportUnsupported = errors.New("export not supported")

	// no track with the requested language code
	ErrUnknownLanguage = errors.New("unknown language")
)
