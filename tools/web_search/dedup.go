package web_search

import (
	"github.com/fetchkit/fetchkit/internal/helpers"
	"github.com/fetchkit/fetchkit/tools/web_search/models"
)

// dedupSet tracks URLs and domains already admitted to an outcome. A
// candidate is kept only when BOTH are unseen: a second hit on an
// already-seen domain is dropped even under a fresh URL, trading
// exhaustiveness for source diversity.
type dedupSet struct {
	urls    map[string]struct{}
	domains map[string]struct{}
}

func newDedupSet() *dedupSet {
	return &dedupSet{urls: map[string]struct{}{}, domains: map[string]struct{}{}}
}

func (d *dedupSet) admit(rawURL string) bool {
	domain := helpers.Domain(rawURL)
	if _, seen := d.urls[rawURL]; seen {
		return false
	}
	if _, seen := d.domains[domain]; seen {
		return false
	}
	d.urls[rawURL] = struct{}{}
	d.domains[domain] = struct{}{}
	return true
}

// DedupResults removes URL and domain duplicates, preserving first-seen
// order.
func DedupResults(in []models.Result) []models.Result {
	set := newDedupSet()
	out := make([]models.Result, 0, len(in))
	for _, r := range in {
		if set.admit(r.URL) {
			out = append(out, r)
		}
	}
	return out
}

// DedupImages applies the same policy to image lists, independently of
// the result list.
func DedupImages(in []models.Image) []models.Image {
	set := newDedupSet()
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		if set.admit(img.URL) {
			out = append(out, img)
		}
	}
	return out
}
