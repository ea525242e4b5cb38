package overlay

import "sync"

// Rect is a cell rectangle on screen
type Rect struct {
	X, Y int
	W, H int
}

// Contains reports whether the cell (x, y) lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a hit-testable area. Children may extend past their parent,
// like a dropdown hanging off a dialog. An Encapsulated region hides its
// descendants from event targeting: a press inside them is reported against
// the encapsulated region itself and only the composed path shows the real
// origin.
type Region struct {
	ID           string
	Rect         Rect
	Encapsulated bool
	// Owner overrides the owner the region was registered under
	Owner    string
	Children []Region
}

// PointerEvent is a resolved pointer press
type PointerEvent struct {
	X, Y int
	// Target is the region the event is reported against
	Target string
	// Path is the composed path, innermost region first
	Path []string
	// Retargeted is set when Target is not the real origin
	Retargeted bool
}

// Origin returns the chain of regions used for containment checks: the
// composed path when the event was retargeted, otherwise Target and its
// ancestors.
func (e PointerEvent) Origin() []string {
	if e.Retargeted || e.Target == "" {
		return e.Path
	}
	for i, id := range e.Path {
		if id == e.Target {
			return e.Path[i:]
		}
	}
	return []string{e.Target}
}

type regionEntry struct {
	owner  string
	region Region
}

// Regions tracks the hit-testable areas of the screen. Later registrations
// sit on top of earlier ones. Regions registered with an empty owner belong
// to the host application; every other owner is an overlay id.
type Regions struct {
	mu      sync.Mutex
	entries []regionEntry
	owners  map[string]string
}

// NewRegions creates an empty region tracker
func NewRegions() *Regions {
	return &Regions{owners: make(map[string]string)}
}

// Set replaces every region registered under owner
func (r *Regions) Set(owner string, regions ...Region) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked(owner)
	for _, reg := range regions {
		r.entries = append(r.entries, regionEntry{owner: owner, region: reg})
	}
	r.reindexLocked()
}

// Clear removes every region registered under owner
func (r *Regions) Clear(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked(owner)
	r.reindexLocked()
}

// Retain drops every overlay-owned region whose owner is not in keep. Host
// regions are untouched.
func (r *Regions) Retain(keep map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.owner == "" || keep[e.owner] {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	r.reindexLocked()
}

// OwnerOf returns the overlay that owns the region, empty for host regions
func (r *Regions) OwnerOf(regionID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owners[regionID]
}

// Hit resolves a press at (x, y) against the registered regions
func (r *Regions) Hit(x, y int) PointerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev := PointerEvent{X: x, Y: y}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if path := hitPath(r.entries[i].region, x, y); path != nil {
			ev.Path = path
			break
		}
	}
	if len(ev.Path) == 0 {
		return ev
	}

	// The outermost encapsulated region on the path hides everything below it.
	ev.Target = ev.Path[0]
	for i := len(ev.Path) - 1; i > 0; i-- {
		if r.encapsulatedLocked(ev.Path[i]) {
			ev.Target = ev.Path[i]
			ev.Retargeted = true
			break
		}
	}
	return ev
}

func (r *Regions) clearLocked(owner string) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.owner != owner {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

func (r *Regions) reindexLocked() {
	r.owners = make(map[string]string)
	for _, e := range r.entries {
		indexRegion(r.owners, e.region, e.owner)
	}
}

func (r *Regions) encapsulatedLocked(id string) bool {
	for _, e := range r.entries {
		if found, ok := findRegion(e.region, id); ok {
			return found.Encapsulated
		}
	}
	return false
}

func indexRegion(owners map[string]string, reg Region, owner string) {
	if reg.Owner != "" {
		owner = reg.Owner
	}
	owners[reg.ID] = owner
	for _, child := range reg.Children {
		indexRegion(owners, child, owner)
	}
}

func findRegion(reg Region, id string) (Region, bool) {
	if reg.ID == id {
		return reg, true
	}
	for _, child := range reg.Children {
		if found, ok := findRegion(child, id); ok {
			return found, true
		}
	}
	return Region{}, false
}

// hitPath returns the innermost-first path to the deepest region containing
// (x, y), or nil
func hitPath(reg Region, x, y int) []string {
	for i := len(reg.Children) - 1; i >= 0; i-- {
		if path := hitPath(reg.Children[i], x, y); path != nil {
			return append(path, reg.ID)
		}
	}
	if reg.Rect.Contains(x, y) {
		return []string{reg.ID}
	}
	return nil
}
