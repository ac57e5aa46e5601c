// Package verify implements the record-linkage pipeline: candidate search,
// adjudication, merge, resumable progress, and the post-run dedup pass.
package verify

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/placelink-cli/internal/model"
)

// flexFloat accepts a JSON number or a numeric string. The upstream export
// is loosely typed and ships coordinates both ways.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

// flexID accepts a JSON string or number identifier.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	*f = flexID(strings.Trim(s, `"`))
	return nil
}

// looseRecord is the tolerant input shape. Sanitize maps it onto the strict
// LocalRecord.
type looseRecord struct {
	ID          flexID    `json:"id"`
	Name        string    `json:"name"`
	Lat         flexFloat `json:"lat"`
	Lng         flexFloat `json:"lng"`
	Country     string    `json:"country"`
	Tags        []string  `json:"tags"`
	Rating      flexFloat `json:"rating"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Active      *bool     `json:"active"`
	Deleted     *bool     `json:"deleted"`
}

func (r looseRecord) sanitize() model.LocalRecord {
	rec := model.LocalRecord{
		ID:          string(r.ID),
		Name:        strings.TrimSpace(r.Name),
		Lat:         float64(r.Lat),
		Lng:         float64(r.Lng),
		Country:     strings.TrimSpace(r.Country),
		Tags:        r.Tags,
		Rating:      float64(r.Rating),
		Description: strings.TrimSpace(r.Description),
		Images:      r.Images,
		Active:      true,
	}
	if r.Active != nil {
		rec.Active = *r.Active
	}
	if r.Deleted != nil {
		rec.Deleted = *r.Deleted
	}
	return rec
}

// LoadRecords reads and sanitizes the input file: an ordered JSON array of
// loosely-typed POI entries. A missing or unreadable input file is the one
// fatal input condition.
func LoadRecords(path string) ([]model.LocalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: read %s", path)
	}

	var loose []looseRecord
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil, eris.Wrapf(err, "input: decode %s", path)
	}

	records := make([]model.LocalRecord, 0, len(loose))
	for _, lr := range loose {
		records = append(records, lr.sanitize())
	}
	return records, nil
}

// SkipStats tallies records excluded from the valid-input set before
// adjudication. These never count against verified/not_found/error.
type SkipStats struct {
	Deleted     int
	Inactive    int
	MissingName int
	BadCoords   int
}

// Total returns the combined skipped-by-filter count.
func (s SkipStats) Total() int {
	return s.Deleted + s.Inactive + s.MissingName + s.BadCoords
}

// FilterValid splits the input into the valid-input subset (sent through
// the adjudicator, in original order) and filter tallies.
func FilterValid(records []model.LocalRecord) ([]model.LocalRecord, SkipStats) {
	var stats SkipStats
	valid := make([]model.LocalRecord, 0, len(records))
	for _, r := range records {
		switch {
		case r.Deleted:
			stats.Deleted++
		case !r.Active:
			stats.Inactive++
		case r.Name == "":
			stats.MissingName++
		case !r.HasCoordinates():
			stats.BadCoords++
		default:
			valid = append(valid, r)
		}
	}
	return valid, stats
}
