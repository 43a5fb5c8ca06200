package commands

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/kickai/kickai/internal/kerrors"
)

// globalEntry wraps one globally registered descriptor (its chat types
// travel inside the descriptor). Command modules append here as a side effect of loading — this is
// the "decorator population" half of the two-phase pattern (spec.md §4.2).
type globalEntry struct {
	descriptor Descriptor
}

var (
	globalMu       sync.Mutex
	globalEntries  []globalEntry
	globalLoaded   = map[string]bool{} // module name -> loaded; nothing in this package reads or writes it
)

// RegisterGlobal appends a descriptor to the process-wide global registry.
// Command modules call this from an init-time registration function; it is
// intentionally side-effecting and must never be read directly by request
// handling (spec.md §4.2 — "consumers never read the global").
func RegisterGlobal(d Descriptor) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalEntries = append(globalEntries, globalEntry{descriptor: d})
}

// ModuleLoader is a compile-time-known command module: a function that
// calls RegisterGlobal for every command it owns. The Initializer imports
// every known module explicitly so side effects occur even when nothing
// else in the binary happens to reference the module first (spec.md §4.2).
type ModuleLoader func()

// snapshotGlobal drains the global registry into a stable slice. Called
// only by Initialize.
func snapshotGlobal() []Descriptor {
	globalMu.Lock()
	defer globalMu.Unlock()
	out := make([]Descriptor, 0, len(globalEntries))
	for _, e := range globalEntries {
		out = append(out, e.descriptor)
	}
	return out
}

// Registry is the frozen, chat-type-aware command directory that request
// handling actually reads. It is built once by Initialize and is
// read-mostly thereafter.
type Registry struct {
	mu         sync.RWMutex
	byKey      map[key]*Descriptor   // (name, chat_type) -> descriptor
	byName     map[string][]*Descriptor // canonical name -> all chat-type variants
	aliasToName map[string]string
	logger     *slog.Logger
}

func newRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byKey:       make(map[key]*Descriptor),
		byName:      make(map[string][]*Descriptor),
		aliasToName: make(map[string]string),
		logger:      logger.With("component", "command_registry"),
	}
}

// initializedRegistry is the process-wide singleton built by Initialize.
// Reading it before Initialize has run is a programming error per spec.md
// §4.2 and fails loudly rather than silently returning an empty registry.
var (
	initOnce   sync.Once
	initRunErr error
	initialized *Registry
)

// Initialize runs every module loader (to guarantee decorator side effects
// fire) and then copies the drained global entries into a freshly-built
// initialized registry, resolving aliases and chat-type overlays. It is the
// only supported way to populate the process-wide registry and must run
// before the transport accepts traffic.
func Initialize(logger *slog.Logger, loaders ...ModuleLoader) (*Registry, error) {
	initOnce.Do(func() {
		for _, load := range loaders {
			load()
		}
		reg := newRegistry(logger)
		for _, d := range snapshotGlobal() {
			if err := reg.register(d); err != nil {
				initRunErr = err
				return
			}
		}
		initialized = reg
	})
	if initRunErr != nil {
		return nil, initRunErr
	}
	return initialized, nil
}

// GetInitializedRegistry returns the process-wide initialized registry. It
// panics if Initialize has not yet been called — this is a programming
// error, never reachable once the startup validator has passed (spec.md
// §4.2, §7 "Programming errors").
func GetInitializedRegistry() *Registry {
	if initialized == nil {
		panic(kerrors.Programming("command registry accessed before initialization", nil))
	}
	return initialized
}

// resetForTests clears the singleton state. It is unexported, so only this
// package's _test.go files can call it.
func resetForTests() {
	globalMu.Lock()
	globalEntries = nil
	globalMu.Unlock()
	initOnce = sync.Once{}
	initRunErr = nil
	initialized = nil
}

// register adds one descriptor for every chat type it declares (or for a
// wildcard "any chat type" slot when AllowedChatTypes is empty), enforcing
// the (name, chat_type) uniqueness and alias-non-collision invariants of
// spec.md §3.
func (r *Registry) register(d Descriptor) error {
	name := strings.ToLower(strings.TrimSpace(d.Name))
	if name == "" {
		return kerrors.Programming("command descriptor missing name", nil)
	}
	d.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.aliasToName[name]; exists {
		return kerrors.Conflict(fmt.Sprintf("command name %q collides with an alias of %q", name, existing), nil)
	}

	chatTypes := d.AllowedChatTypes
	if len(chatTypes) == 0 {
		chatTypes = []ChatType{"*"}
	}

	for _, ct := range chatTypes {
		k := key{name: name, chatType: ct}
		if _, exists := r.byKey[k]; exists {
			return kerrors.Conflict(fmt.Sprintf("command %q already registered for chat type %q", name, ct), nil)
		}
	}

	for _, alias := range d.Aliases {
		aliasLower := strings.ToLower(strings.TrimSpace(alias))
		if aliasLower == "" {
			continue
		}
		if aliasLower == name {
			return kerrors.Conflict(fmt.Sprintf("alias %q collides with canonical name", aliasLower), nil)
		}
		if _, exists := r.byName[aliasLower]; exists {
			return kerrors.Conflict(fmt.Sprintf("alias %q collides with a canonical command name", aliasLower), nil)
		}
		if existing, exists := r.aliasToName[aliasLower]; exists && existing != name {
			return kerrors.Conflict(fmt.Sprintf("alias %q already points to %q", aliasLower, existing), nil)
		}
	}

	copyOf := d
	for _, ct := range chatTypes {
		r.byKey[key{name: name, chatType: ct}] = &copyOf
	}
	r.byName[name] = append(r.byName[name], &copyOf)
	for _, alias := range d.Aliases {
		aliasLower := strings.ToLower(strings.TrimSpace(alias))
		if aliasLower != "" {
			r.aliasToName[aliasLower] = name
		}
	}

	r.logger.Debug("registered command", "name", name, "chat_types", chatTypes, "aliases", d.Aliases)
	return nil
}

func (r *Registry) canonicalName(nameOrAlias string) string {
	name := strings.ToLower(strings.TrimSpace(nameOrAlias))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byName[name]; ok {
		return name
	}
	if canonical, ok := r.aliasToName[name]; ok {
		return canonical
	}
	return name
}

// Resolve returns the descriptor registered for nameOrAlias in the given
// chat type, falling back to a wildcard registration if one exists. Returns
// nil if the command is unknown or not permitted in that chat type.
func (r *Registry) Resolve(nameOrAlias string, chatType ChatType) *Descriptor {
	name := r.canonicalName(nameOrAlias)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.byKey[key{name: name, chatType: chatType}]; ok {
		return d
	}
	if d, ok := r.byKey[key{name: name, chatType: "*"}]; ok {
		return d
	}
	return nil
}

// Names returns every canonical command name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of distinct canonical commands registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// ByFeature returns every descriptor variant tagged with the given feature.
func (r *Registry) ByFeature(feature string) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Descriptor
	seen := map[*Descriptor]bool{}
	for _, d := range r.byKey {
		if d.Feature == feature && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
