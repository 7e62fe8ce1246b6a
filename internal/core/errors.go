package core

// errors.go contains the error-to-user-message mapping. Handlers log the
// technical error and hand clients the mapped message plus a support code
// they can quote when reporting a problem.
//
// Error Codes Reference:
//
//	IMP001 - file kind not supported for import
//	IMP002 - file contained no usable tabular data
//	IMP003 - operation requires an imported dataset
//	IMP004 - import was cancelled or timed out
//	GEN001 - unexpected internal error

import (
	"context"
	"errors"

	"github.com/labelcraft/vdp/internal/importer"
)

// ErrNoDataset is returned by dataset operations when nothing has been
// imported yet, or after the dataset was cleared.
var ErrNoDataset = errors.New("no dataset loaded")

// UserMessage is a user-facing description of a failure.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// MapError translates an internal error into a UserMessage. Unrecognized
// errors map to a generic message so internals never leak to clients.
func MapError(err error) UserMessage {
	switch {
	case errors.Is(err, importer.ErrUnsupportedFileKind):
		return UserMessage{
			Code:    "IMP001",
			Message: "This file type is not supported.",
			Action:  "Upload a CSV, TXT or XLSX file.",
		}
	case errors.Is(err, importer.ErrImportFormat):
		return UserMessage{
			Code:    "IMP002",
			Message: "The file does not contain usable tabular data.",
			Action:  "Check that the file has a header row and at least one data row.",
		}
	case errors.Is(err, ErrNoDataset):
		return UserMessage{
			Code:    "IMP003",
			Message: "No dataset has been imported.",
			Action:  "Import a file first.",
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return UserMessage{
			Code:    "IMP004",
			Message: "The import was cancelled before it finished.",
			Action:  "Try the import again.",
		}
	default:
		return UserMessage{
			Code:    "GEN001",
			Message: "Something went wrong. Please try again.",
			Action:  "If the problem persists, contact support with the error code.",
		}
	}
}
