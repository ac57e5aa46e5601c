package model

import "time"

// VerificationStatus represents the outcome of verifying a single record.
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "verified"
	StatusNotFound VerificationStatus = "not_found"
	StatusError    VerificationStatus = "error"
)

// LocalRecord is an input point of interest to be verified. It is read-only:
// the pipeline never mutates it, only derives a VerifiedRecord from it.
type LocalRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Country     string   `json:"country,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Active      bool     `json:"active"`
	Deleted     bool     `json:"deleted,omitempty"`
}

// HasCoordinates reports whether the record carries usable coordinates.
// (0,0) is treated as missing: it is the null island default of the
// upstream export, not a real POI location.
func (r LocalRecord) HasCoordinates() bool {
	if r.Lat == 0 && r.Lng == 0 {
		return false
	}
	return r.Lat >= -90 && r.Lat <= 90 && r.Lng >= -180 && r.Lng <= 180
}

// VerifiedRecord is the unit of pipeline output: the local record's fields
// plus verification metadata and, when verified, the merged external fields.
type VerifiedRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Country     string   `json:"country,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Active      bool     `json:"active"`
	Deleted     bool     `json:"deleted,omitempty"`

	Status     VerificationStatus `json:"status"`
	VerifiedAt time.Time          `json:"verified_at"`
	Note       string             `json:"note,omitempty"`

	PlaceID     string `json:"place_id,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	RatingCount int    `json:"rating_count,omitempty"`
}

// Verified reports whether the record was accepted against the directory.
func (r VerifiedRecord) Verified() bool {
	return r.Status == StatusVerified
}
