// Package journal persists recorded call logs between runs.
//
// Entries are stored as JSON through gache in where.Journal, on the
// filesystem returned by filesystem.API. Entries older than journal.lifetime
// are dropped when the journal is read.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/calllog"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/where"
	"golang.org/x/exp/slices"
)

// ErrNotFound is returned when no entry has the requested name.
var ErrNotFound = errors.New("journal entry not found")

// Entry is a named call log.
type Entry struct {
	Name    string           `json:"name" jsonschema:"description=Name the log was recorded under"`
	Saved   time.Time        `json:"saved" jsonschema:"description=When the log was saved"`
	Backend string           `json:"backend,omitempty" jsonschema:"description=Implementation active when recording started"`
	Records []calllog.Record `json:"records" jsonschema:"description=Calls in invocation order"`
}

// Calls returns the number of recorded calls, control calls included.
func (e *Entry) Calls() int {
	return len(e.Records)
}

func (e *Entry) expired(now time.Time, lifetime time.Duration) bool {
	return lifetime > 0 && now.Sub(e.Saved) > lifetime
}

var cacher = sync.OnceValue(func() *gache.Cache[map[string]*Entry] {
	return gache.New[map[string]*Entry](&gache.Options{
		Path:       where.Journal(),
		FileSystem: &filesystem.GacheFs{},
	})
})

// now is replaced in tests.
var now = time.Now

// Lifetime returns how long entries are kept. Zero keeps them forever.
func Lifetime() time.Duration {
	return viper.GetDuration(key.JournalLifetime)
}

// Get returns every unexpired entry by name.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}

	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}

	t, lifetime := now(), Lifetime()
	return lo.OmitBy(cached, func(_ string, e *Entry) bool {
		return e.expired(t, lifetime)
	}), nil
}

// Prune drops expired entries from storage and returns how many were dropped.
func Prune() (int, error) {
	cached, expired, err := cacher().Get()
	if err != nil || expired || cached == nil {
		return 0, err
	}

	kept, err := Get()
	if err != nil {
		return 0, err
	}

	dropped := len(cached) - len(kept)
	if dropped == 0 {
		return 0, nil
	}

	return dropped, cacher().Set(kept)
}

// Save stores records under name, replacing any entry with that name.
func Save(name, backend string, records []calllog.Record) error {
	if name == "" {
		return fmt.Errorf("%w: empty journal name", calllog.ErrInvalidArgument)
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	saved[name] = &Entry{
		Name:    name,
		Saved:   now(),
		Backend: backend,
		Records: lo.Map(records, func(r calllog.Record, _ int) calllog.Record {
			return portable(r)
		}),
	}

	return cacher().Set(saved)
}

// portable replaces arguments JSON cannot represent faithfully with their
// description, so a saved entry reads back exactly as it was stored.
// Byte slices become their length, integers become float64 and
// implementations passed to setImpl become their description.
func portable(r calllog.Record) calllog.Record {
	r.Args = lo.Map(r.Args, func(arg any, _ int) any {
		switch v := arg.(type) {
		case nil, string, bool, float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		default:
			return calllog.Describe(v)
		}
	})
	return r
}

// Load returns the entry saved under name.
func Load(name string) (mo.Option[*Entry], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[*Entry](), err
	}

	entry, ok := saved[name]
	if !ok {
		return mo.None[*Entry](), nil
	}

	return mo.Some(entry), nil
}

// Remove deletes the entry saved under name.
func Remove(name string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if _, ok := saved[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	delete(saved, name)
	return cacher().Set(saved)
}

// Names returns the names of every unexpired entry, most recent first.
func Names() ([]string, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	slices.SortFunc(entries, func(a, b *Entry) int {
		if c := b.Saved.Compare(a.Saved); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return lo.Map(entries, func(e *Entry, _ int) string {
		return e.Name
	}), nil
}

// Suggest returns entry names fuzzily matching partial, most recent first.
func Suggest(partial string) []string {
	names, err := Names()
	if err != nil {
		return []string{}
	}

	partial = strings.TrimSpace(partial)
	return lo.Filter(names, func(name string, _ int) bool {
		return fuzzy.MatchFold(partial, name)
	})
}
