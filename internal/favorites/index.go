package favorites

import (
	"sort"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

// index keeps the favorited id set and the id to record map in step
type index struct {
	ids     map[string]struct{}
	records map[string]catalog.Favorite
}

func newIndex() *index {
	return &index{
		ids:     make(map[string]struct{}),
		records: make(map[string]catalog.Favorite),
	}
}

func (x *index) has(id string) bool {
	_, ok := x.ids[id]
	return ok
}

func (x *index) get(id string) (catalog.Favorite, bool) {
	if !x.has(id) {
		return catalog.Favorite{}, false
	}
	return x.records[id], true
}

func (x *index) put(fav catalog.Favorite) {
	if fav.Item == "" {
		return
	}
	x.ids[fav.Item] = struct{}{}
	x.records[fav.Item] = fav
}

func (x *index) remove(id string) {
	delete(x.ids, id)
	delete(x.records, id)
}

func (x *index) replace(favs []catalog.Favorite) {
	x.ids = make(map[string]struct{}, len(favs))
	x.records = make(map[string]catalog.Favorite, len(favs))
	for _, f := range favs {
		// Unfavorited rows can still come back from the API with activo false
		if !f.Activo {
			continue
		}
		x.put(f)
	}
}

func (x *index) len() int {
	return len(x.ids)
}

func (x *index) sortedIDs() []string {
	out := make([]string, 0, len(x.ids))
	for id := range x.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
