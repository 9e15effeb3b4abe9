package sheets

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultSheetName is the tab queried when none is configured.
const DefaultSheetName = "Sheet1"

// ErrInvalidSource reports a spreadsheet reference that cannot be resolved to
// an id. It is terminal: retrying will not help.
var ErrInvalidSource = errors.New("invalid spreadsheet source")

var (
	sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	bareIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`)
)

// Source identifies the sheet to read.
type Source struct {
	SpreadsheetID string
	SheetName     string
}

// NewSource builds a Source from a spreadsheet URL or bare id.
func NewSource(ref, sheetName string) (Source, error) {
	id, err := ExtractSpreadsheetID(ref)
	if err != nil {
		return Source{}, err
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return Source{SpreadsheetID: id, SheetName: sheetName}, nil
}

// Validate reports ErrInvalidSource when the id is missing.
func (s Source) Validate() error {
	if strings.TrimSpace(s.SpreadsheetID) == "" {
		return fmt.Errorf("%w: empty spreadsheet id", ErrInvalidSource)
	}
	return nil
}

func (s Source) sheet() string {
	if name := strings.TrimSpace(s.SheetName); name != "" {
		return name
	}
	return DefaultSheetName
}

// ExtractSpreadsheetID pulls the id out of a Google Sheets URL. A bare id is
// accepted as-is.
func ExtractSpreadsheetID(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidSource)
	}
	if m := sheetURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, ref)
}
