package voting

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// astCacheSize bounds how many distinct source strings Parse remembers
// across repeated registrations; votings are re-registered far more often
// than they're edited (e.g. reloading the same config), so caching the
// parse step avoids re-lexing/re-parsing identical expressions.
const astCacheSize = 256

// Registry resolves voting names for both explicit lookup
// (get_registered) and implicit identifier fallback during evaluation
// (spec.md §4.5: "identifiers not bound in the context are resolved
// against the registry").
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Voting
	astCache *lru.Cache[string, *parsedVoting]
}

// NewRegistry returns a registry pre-populated with every built-in voting
// under its declared name, so named sub-voting composition (e.g. an
// expression referencing `CombSum`) resolves out of the box.
func NewRegistry() *Registry {
	cache, _ := lru.New[string, *parsedVoting](astCacheSize)
	r := &Registry{byName: make(map[string]Voting), astCache: cache}
	for b, name := range builtinNames {
		r.byName[name] = Builtin(b).Voting()
	}
	return r
}

// Register parses source, lifts its declared name (the "<name> = ..."
// prefix), and registers it. Returns an error if source declares no name.
func (r *Registry) Register(source string) (string, error) {
	name, v, err := r.parseCached(source)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", internalerr.New(internalerr.Parse, "voting source declares no name; use RegisterAt")
	}
	v.registry = r
	r.mu.Lock()
	r.byName[name] = v
	r.mu.Unlock()
	return name, nil
}

// RegisterAt parses source and registers it under name, overriding
// whatever name (if any) the source itself declares.
func (r *Registry) RegisterAt(name, source string) error {
	_, v, err := r.parseCached(source)
	if err != nil {
		return err
	}
	v.registry = r
	r.mu.Lock()
	r.byName[name] = v
	r.mu.Unlock()
	return nil
}

// RegisterVoting registers an already-constructed Voting directly (used
// for host callbacks and other non-source votings).
func (r *Registry) RegisterVoting(name string, v Voting) {
	r.mu.Lock()
	r.byName[name] = v
	r.mu.Unlock()
}

// GetRegistered returns the voting registered under name, or nil if absent.
func (r *Registry) GetRegistered(name string) (Voting, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byName[name]
	return v, ok
}

// getParsed is the evaluator-facing lookup used for identifier fallback:
// it returns whatever Voting is registered under name (builtin, parsed or
// host callback), since any of them can serve as a sub-voting call.
func (r *Registry) getParsed(name string) (Voting, bool) {
	return r.GetRegistered(name)
}

func (r *Registry) parseCached(source string) (string, *parsedVoting, error) {
	if r.astCache != nil {
		if cached, ok := r.astCache.Get(source); ok {
			return cached.declaredName, cached, nil
		}
	}
	name, v, err := ParseSource(source)
	if err != nil {
		return "", nil, err
	}
	pv := v.(*parsedVoting)
	pv.declaredName = name
	if r.astCache != nil {
		r.astCache.Add(source, pv)
	}
	return name, pv, nil
}
