package live

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TableClock is a synthetic table invalidated on a timer. Queries whose
// result depends on the current time observe it.
const TableClock = "clock"

// Tracker fans out table invalidations to observers.
type Tracker struct {
	log *zap.Logger

	mu         sync.Mutex
	observers  map[*observer]struct{}
	dependents map[string][]string
}

type observer struct {
	tables map[string]struct{}
	signal chan struct{}
}

func NewTracker(log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		log:        log,
		observers:  make(map[*observer]struct{}),
		dependents: make(map[string][]string),
	}
}

// Cascade records that writes to parent may change rows of child, as with
// ON DELETE CASCADE foreign keys.
func (t *Tracker) Cascade(parent, child string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dependents[parent] = append(t.dependents[parent], child)
}

// Observe returns a channel that receives a value after any of the tables is
// invalidated. Signals coalesce. The returned func unregisters the observer.
func (t *Tracker) Observe(tables ...string) (<-chan struct{}, func()) {
	o := &observer{
		tables: make(map[string]struct{}, len(tables)),
		signal: make(chan struct{}, 1),
	}
	for _, name := range tables {
		o.tables[name] = struct{}{}
	}

	t.mu.Lock()
	t.observers[o] = struct{}{}
	t.mu.Unlock()

	var once sync.Once
	return o.signal, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.observers, o)
			t.mu.Unlock()
		})
	}
}

// Invalidate wakes observers of the given tables and of their dependents.
func (t *Tracker) Invalidate(tables ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	affected := make(map[string]struct{})
	pending := append([]string(nil), tables...)
	for len(pending) > 0 {
		name := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, seen := affected[name]; seen {
			continue
		}
		affected[name] = struct{}{}
		pending = append(pending, t.dependents[name]...)
	}

	for o := range t.observers {
		for name := range affected {
			if _, ok := o.tables[name]; ok {
				select {
				case o.signal <- struct{}{}:
				default:
				}
				break
			}
		}
	}
}

// Attach registers gorm callbacks that invalidate the written table once the
// statement's transaction has finished. Writes run inside an explicit
// transaction are reported before that transaction commits.
func (t *Tracker) Attach(db *gorm.DB) error {
	const after = "gorm:commit_or_rollback_transaction"

	cb := db.Callback()
	if err := cb.Create().After(after).Register("live:invalidate_create", t.afterWrite); err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}
	if err := cb.Update().After(after).Register("live:invalidate_update", t.afterWrite); err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}
	if err := cb.Delete().After(after).Register("live:invalidate_delete", t.afterWrite); err != nil {
		return fmt.Errorf("register delete callback: %w", err)
	}
	return nil
}

func (t *Tracker) afterWrite(db *gorm.DB) {
	if db.Error != nil || db.RowsAffected == 0 || db.Statement == nil {
		return
	}
	table := db.Statement.Table
	if table == "" && db.Statement.Schema != nil {
		table = db.Statement.Schema.Table
	}
	if table == "" {
		return
	}
	t.log.Debug("invalidate", zap.String("table", table), zap.Int64("rows", db.RowsAffected))
	t.Invalidate(table)
}
