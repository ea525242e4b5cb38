package overlay

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/riordanpawley/modalstack/internal/types"
)

// ChangeKind describes what caused a snapshot to be delivered
type ChangeKind int

const (
	ChangeInitial ChangeKind = iota
	ChangePush
	ChangeRemove
	ChangeStatus
)

// String returns the string representation of the change kind
func (c ChangeKind) String() string {
	switch c {
	case ChangeInitial:
		return "initial"
	case ChangePush:
		return "push"
	case ChangeRemove:
		return "remove"
	case ChangeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Snapshot is the ordered overlay stack at one version. Records are copies;
// index 0 is the bottom, the last entry is the topmost overlay.
type Snapshot struct {
	Version uint64
	Change  ChangeKind
	ID      string
	Records []Record
}

// Top returns the topmost record of the snapshot
func (s Snapshot) Top() (Record, bool) {
	if len(s.Records) == 0 {
		return Record{}, false
	}
	return s.Records[len(s.Records)-1], true
}

// Listener observes every registry change
type Listener func(Snapshot)

type subscription struct {
	id uint64
	fn Listener
}

type delivery struct {
	snap      Snapshot
	listeners []subscription
}

// Registry is the ordered collection of live overlays. Insertion order is
// z-order. It is safe for concurrent use; deliveries to listeners are
// serialized, so a listener never sees versions out of order.
type Registry struct {
	mu        sync.Mutex
	records   []*Record
	subs      []subscription
	nextSubID uint64
	version   uint64
	seq       uint64

	pending  []delivery
	draining bool

	logger *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		records: make([]*Record, 0),
		logger:  logger.With("component", "overlay.registry"),
	}
}

// Push appends rec on top of the stack and notifies subscribers before
// returning. A push made from inside a listener is delivered right after
// that listener returns. With no subscribers the record is still kept and
// becomes visible once a portal subscribes.
func (r *Registry) Push(rec *Record) string {
	r.mu.Lock()
	r.seq++
	rec.Seq = r.seq
	r.records = append(r.records, rec)
	if len(r.subs) == 0 {
		r.logger.Debug("overlay pushed with no portal subscribed", "id", rec.ID, "kind", rec.Kind)
	}
	r.enqueueLocked(ChangePush, rec.ID)
	r.mu.Unlock()

	r.drain()
	return rec.ID
}

// Remove drops the record with the given id. Removing an unknown id is a
// no-op; it reports whether anything was removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		r.logger.Debug("remove of unknown overlay ignored", "id", id)
		return false
	}
	r.records = append(r.records[:idx], r.records[idx+1:]...)
	r.enqueueLocked(ChangeRemove, id)
	r.mu.Unlock()

	r.drain()
	return true
}

// Subscribe registers a listener. It immediately receives the current state
// and then every subsequent change.
func (r *Registry) Subscribe(fn Listener) (unsubscribe func()) {
	r.mu.Lock()
	r.nextSubID++
	sub := subscription{id: r.nextSubID, fn: fn}
	r.subs = append(r.subs, sub)
	r.pending = append(r.pending, delivery{
		snap:      r.snapshotLocked(ChangeInitial, ""),
		listeners: []subscription{sub},
	})
	r.mu.Unlock()

	r.drain()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, s := range r.subs {
				if s.id == sub.id {
					r.subs = append(r.subs[:i], r.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Topmost returns the last record, in insertion order, that satisfies pred.
// A nil pred matches every record.
func (r *Registry) Topmost(pred func(Record) bool) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.records) - 1; i >= 0; i-- {
		rec := *r.records[i]
		if pred == nil || pred(rec) {
			return rec, true
		}
	}
	return Record{}, false
}

// Get returns a copy of the record with the given id
func (r *Registry) Get(id string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return Record{}, false
	}
	return *r.records[idx], true
}

// Len returns the number of registered overlays
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Snapshot returns the current stack
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(ChangeInitial, "")
}

// transition moves a record's status one step forward. Only controllers
// call it.
func (r *Registry) transition(id string, next types.Status) error {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("overlay %s is not registered", id)
	}
	rec := r.records[idx]
	if !rec.Status.CanTransition(next) {
		cur := rec.Status
		r.mu.Unlock()
		return fmt.Errorf("overlay %s cannot move from %s to %s", id, cur, next)
	}
	rec.Status = next
	r.enqueueLocked(ChangeStatus, id)
	r.mu.Unlock()

	r.drain()
	return nil
}

// retire marks a dismissing record dismissed and removes it in one step,
// so no listener ever sees a dismissed record in the stack.
func (r *Registry) retire(id string) error {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("overlay %s is not registered", id)
	}
	rec := r.records[idx]
	if !rec.Status.CanTransition(types.StatusDismissed) {
		cur := rec.Status
		r.mu.Unlock()
		return fmt.Errorf("overlay %s cannot move from %s to %s", id, cur, types.StatusDismissed)
	}
	rec.Status = types.StatusDismissed
	r.records = append(r.records[:idx], r.records[idx+1:]...)
	r.enqueueLocked(ChangeRemove, id)
	r.mu.Unlock()

	r.drain()
	return nil
}

func (r *Registry) indexLocked(id string) int {
	for i, rec := range r.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) snapshotLocked(change ChangeKind, id string) Snapshot {
	records := make([]Record, len(r.records))
	for i, rec := range r.records {
		records[i] = *rec
	}
	return Snapshot{
		Version: r.version,
		Change:  change,
		ID:      id,
		Records: records,
	}
}

func (r *Registry) enqueueLocked(change ChangeKind, id string) {
	r.version++
	if len(r.subs) == 0 {
		return
	}
	listeners := make([]subscription, len(r.subs))
	copy(listeners, r.subs)
	r.pending = append(r.pending, delivery{
		snap:      r.snapshotLocked(change, id),
		listeners: listeners,
	})
}

// drain delivers queued snapshots. Whoever finds the queue idle becomes the
// drainer; everyone else just leaves their delivery in the queue.
func (r *Registry) drain() {
	r.mu.Lock()
	if r.draining {
		r.mu.Unlock()
		return
	}
	r.draining = true
	for len(r.pending) > 0 {
		d := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		for _, sub := range d.listeners {
			r.deliver(sub, d.snap)
		}
		r.mu.Lock()
	}
	r.draining = false
	r.mu.Unlock()
}

func (r *Registry) deliver(sub subscription, snap Snapshot) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("overlay listener panicked", "subscriber", sub.id, "version", snap.Version, "panic", p)
		}
	}()
	sub.fn(snap)
}
