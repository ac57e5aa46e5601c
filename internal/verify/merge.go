package verify

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/pkg/places"
)

// Merger combines a local record with an accepted match into a verified
// record, applying the field-level precedence rules.
type Merger struct {
	// MaxImages caps the external photo list.
	MaxImages int
	// PhotoWidthPx is the fixed width requested for external photo URLs.
	PhotoWidthPx int
	// MinDescriptionLen: an external summary only replaces a local
	// description shorter than this.
	MinDescriptionLen int
}

// Merge builds a verified record from the local record and the accepted
// match result.
func (m Merger) Merge(rec model.LocalRecord, mr model.MatchResult) model.VerifiedRecord {
	cand := mr.Candidate
	out := fromLocal(rec)

	out.Status = model.StatusVerified
	out.VerifiedAt = time.Now().UTC()
	out.PlaceID = cand.PlaceID

	if cand.Rating > rec.Rating {
		out.Rating = cand.Rating
	}
	out.RatingCount = cand.RatingCount
	out.Address = cand.Address
	if cand.Website != "" {
		out.Website = cand.Website
	}
	if cand.Phone != "" {
		out.Phone = cand.Phone
	}

	if cand.Summary != "" && len(rec.Description) < m.MinDescriptionLen {
		out.Description = cand.Summary
	}

	if needsCountry(rec.Country) {
		if c := countryFromAddress(cand.Address); c != "" {
			out.Country = c
		}
	}

	out.Images = m.reconcileImages(rec.Images, cand.PhotoRefs)

	out.Note = fmt.Sprintf("matched %q: name similarity %.0f%%, distance %.0f m",
		cand.Name, mr.NameSimilarity*100, mr.DistanceKm*1000)

	return out
}

// Reject emits a not_found record with the rejection reason in the note.
func Reject(rec model.LocalRecord, reason string) model.VerifiedRecord {
	out := fromLocal(rec)
	out.Status = model.StatusNotFound
	out.VerifiedAt = time.Now().UTC()
	out.Note = reason
	out.Images = httpImages(rec.Images)
	return out
}

// Failed emits an error record carrying the failure message.
func Failed(rec model.LocalRecord, err error) model.VerifiedRecord {
	out := fromLocal(rec)
	out.Status = model.StatusError
	out.VerifiedAt = time.Now().UTC()
	out.Note = err.Error()
	out.Images = httpImages(rec.Images)
	return out
}

func fromLocal(rec model.LocalRecord) model.VerifiedRecord {
	return model.VerifiedRecord{
		ID:          rec.ID,
		Name:        rec.Name,
		Lat:         rec.Lat,
		Lng:         rec.Lng,
		Country:     rec.Country,
		Tags:        rec.Tags,
		Rating:      rec.Rating,
		Description: rec.Description,
		Images:      rec.Images,
		Active:      rec.Active,
		Deleted:     rec.Deleted,
	}
}

// reconcileImages builds the final image list: external photos first (capped,
// fixed width), then local HTTP(S) URLs not already present, exact-string
// duplicates removed.
func (m Merger) reconcileImages(local []string, photoRefs []string) []string {
	var out []string
	seen := make(map[string]bool)

	if len(photoRefs) > 0 {
		refs := photoRefs
		if m.MaxImages > 0 && len(refs) > m.MaxImages {
			refs = refs[:m.MaxImages]
		}
		for _, ref := range refs {
			url := places.PhotoURL(ref, m.PhotoWidthPx)
			if !seen[url] {
				seen[url] = true
				out = append(out, url)
			}
		}
	}

	for _, img := range httpImages(local) {
		if !seen[img] {
			seen[img] = true
			out = append(out, img)
		}
	}

	return out
}

// httpImages keeps only HTTP(S) URLs; the raw input list also carries
// device-local file paths that mean nothing downstream.
func httpImages(images []string) []string {
	var out []string
	for _, img := range images {
		if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
			out = append(out, img)
		}
	}
	return out
}

func needsCountry(country string) bool {
	c := strings.ToLower(strings.TrimSpace(country))
	return c == "" || c == "unknown"
}

// countryFromAddress takes the last comma-separated segment of a formatted
// address as the country.
func countryFromAddress(address string) string {
	if address == "" {
		return ""
	}
	parts := strings.Split(address, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
