package finder

import (
	"sync"
	"sync/atomic"

	"companyfinder/internal/dataset"
)

// view is an open consumer waiting for newer snapshots.
type view struct {
	render func(*dataset.Snapshot)
	closed atomic.Bool

	mu      sync.Mutex
	lastSeq uint64
}

// Open registers render to be called with every snapshot published while
// the view is open. A view never receives a snapshot older than one it has
// already been given, nor one that Clear or a newer refresh has replaced.
// The returned func closes the view; it may be called from inside render.
// render must not call Refresh, Clear or Load.
func (f *Finder) Open(render func(*dataset.Snapshot)) (closeView func()) {
	v := &view{render: render}

	f.viewsMu.Lock()
	f.nextView++
	id := f.nextView
	f.views[id] = v
	f.viewsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.closed.Store(true)
			f.viewsMu.Lock()
			delete(f.views, id)
			f.viewsMu.Unlock()
		})
	}
}

// OpenViews returns the number of open views.
func (f *Finder) OpenViews() int {
	f.viewsMu.Lock()
	defer f.viewsMu.Unlock()
	return len(f.views)
}

func (f *Finder) notify(seq uint64, snap *dataset.Snapshot) {
	f.publishMu.RLock()
	defer f.publishMu.RUnlock()
	if f.published != seq {
		return
	}

	f.viewsMu.Lock()
	views := make([]*view, 0, len(f.views))
	for _, v := range f.views {
		views = append(views, v)
	}
	f.viewsMu.Unlock()

	for _, v := range views {
		v.deliver(seq, snap)
	}
}

func (v *view) deliver(seq uint64, snap *dataset.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed.Load() || seq <= v.lastSeq {
		return
	}
	v.lastSeq = seq
	v.render(snap)
}
