package verify

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/geo"
	"github.com/sells-group/placelink-cli/internal/model"
)

// Clean is the post-verification dedup pass over the complete record set:
//
//  1. Exact duplicate identifiers are dropped, first occurrence wins.
//  2. Records are bucketed on the 4-decimal coordinate grid; within a cell
//     and its neighbors, any pair closer than closeKm where exactly one side
//     is verified drops the unverified side. Two unverified near-duplicates
//     are ambiguous and both survive.
//  3. A record survives if verified, or if it still has coordinates and a
//     name and is not marked deleted.
//
// Survivors keep their original relative order. The pass is idempotent:
// running it on its own output removes nothing further.
func Clean(records []model.VerifiedRecord, closeKm float64) []model.VerifiedRecord {
	drop := make([]bool, len(records))

	// Pass 1: duplicate identifiers.
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			continue
		}
		if seen[r.ID] {
			drop[i] = true
			continue
		}
		seen[r.ID] = true
	}

	// Pass 2: verified records shadow unverified near-duplicates. A 4-decimal
	// latitude cell is ~11 m everywhere, but a longitude cell shrinks by
	// cos(latitude), so the east-west scan reach must widen with latitude or
	// close pairs away from the equator slip between cells.
	type cell struct{ lat, lng int64 }
	grid := make(map[cell][]int)
	for i, r := range records {
		if drop[i] {
			continue
		}
		la, ln := geo.GridCell(r.Lat, r.Lng)
		grid[cell{la, ln}] = append(grid[cell{la, ln}], i)
	}

	// closeKm spans this many latitude cells.
	latReach := int64(closeKm*1000/11) + 1

	dropped := 0
	for i, r := range records {
		if drop[i] || r.Verified() {
			continue
		}
		la, ln := geo.GridCell(r.Lat, r.Lng)
		reach := lngReach(r.Lat, latReach)
	neighborScan:
		for dla := -latReach; dla <= latReach; dla++ {
			for dln := -reach; dln <= reach; dln++ {
				for _, j := range grid[cell{la + dla, ln + dln}] {
					if j == i || drop[j] || !records[j].Verified() {
						continue
					}
					if geo.DistanceKm(r.Lat, r.Lng, records[j].Lat, records[j].Lng) < closeKm {
						drop[i] = true
						dropped++
						break neighborScan
					}
				}
			}
		}
	}

	// Pass 3: survivor rule + output in original order.
	out := make([]model.VerifiedRecord, 0, len(records))
	for i, r := range records {
		if drop[i] {
			continue
		}
		if r.Verified() || survivesUnverified(r) {
			out = append(out, r)
		}
	}

	zap.L().Info("dedup pass complete",
		zap.Int("input", len(records)),
		zap.Int("survivors", len(out)),
		zap.Int("shadowed_unverified", dropped),
	)
	return out
}

// lngReach scales the east-west scan width by 1/cos(latitude), clamped near
// the poles where longitude cells degenerate.
func lngReach(latDeg float64, latReach int64) int64 {
	c := math.Cos(latDeg * math.Pi / 180)
	if c < 0.05 {
		c = 0.05
	}
	return int64(float64(latReach)/c) + 1
}

func survivesUnverified(r model.VerifiedRecord) bool {
	if r.Deleted || r.Name == "" {
		return false
	}
	return r.Lat != 0 || r.Lng != 0
}
