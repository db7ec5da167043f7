package importer

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/deniz/regdesk/internal/pkg/helpers"
)

// Canonical field names a CSV column can map to.
const (
	fieldName              = "name"
	fieldEmail             = "email"
	fieldPhone             = "phone"
	fieldCourseInterested  = "courseInterested"
	fieldLocation          = "location"
	fieldCitizenshipStatus = "citizenshipStatus"
	fieldCurrentSituation  = "currentSituation"
	fieldStatus            = "status"
	fieldRegistrationDate  = "registrationDate"
)

// headerSynonyms maps normalized header spellings to canonical fields. The
// synonym set covers the export header plus the column names seen in the
// registration form spreadsheets this tool is fed.
var headerSynonyms = map[string]string{
	"name":  fieldName,
	"email": fieldEmail,
	"phone": fieldPhone,

	"courseinterested":               fieldCourseInterested,
	"course":                         fieldCourseInterested,
	"interested_medical_professions": fieldCourseInterested,

	"location": fieldLocation,

	"citizenshipstatus":          fieldCitizenshipStatus,
	"current_status_citizenship": fieldCitizenshipStatus,

	"currentsituation":  fieldCurrentSituation,
	"current_situation": fieldCurrentSituation,

	"status": fieldStatus,

	"registrationdate": fieldRegistrationDate,
	"register_date":    fieldRegistrationDate,
	"timestamp":        fieldRegistrationDate,
}

// normalizeHeader lowercases a header cell and strips every whitespace rune
// and a leading UTF-8 BOM, so "Course Interested", "  Email " and
// "courseinterested" all land on their synonym keys.
func normalizeHeader(cell string) string {
	cell = strings.TrimPrefix(cell, "\uFEFF")
	cell = strings.ToLower(cell)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cell)
}

// mapHeader resolves each CSV column to a canonical field, or "" for columns
// this importer does not recognize (they are carried along but ignored).
func mapHeader(header []string) []string {
	fields := make([]string, len(header))
	for i, cell := range header {
		fields[i] = headerSynonyms[normalizeHeader(cell)]
	}
	return fields
}

// normalizeDate converts spreadsheet date spellings to the stored calendar
// date format. It accepts YYYY-MM-DD as is and MM/DD/YYYY with an optional
// time component; anything else falls back to today.
func normalizeDate(value string, now time.Time) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Format(helpers.DateLayout)
	}

	if _, err := time.Parse(helpers.DateLayout, value); err == nil {
		return value
	}

	for _, layout := range []string{"1/2/2006 15:04:05", "1/2/2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(helpers.DateLayout)
		}
	}

	return now.Format(helpers.DateLayout)
}

// placeholderEmail builds a stand-in address for rows missing one. The row
// sequence keeps placeholders unique within a batch even when the whole
// batch shares one timestamp.
func placeholderEmail(now time.Time, seq int) string {
	return fmt.Sprintf("unknown_%d_%d@example.com", now.UnixMilli(), seq)
}
