package host

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/markup"
	"github.com/vango-dev/vango-ext/pkg/notice"
)

// DefaultMaxDepth is the default component nesting limit.
const DefaultMaxDepth = 64

// DefaultTemplateTTL is how long markup compiled for RenderMarkup stays
// cached after its last use. Markup of loaded components stays cached
// until its namespace is unloaded.
const DefaultTemplateTTL = 5 * time.Minute

type entry struct {
	namespace string
	reg       *component.Registration
}

// Engine holds loaded components and renders them.
type Engine struct {
	mu         sync.RWMutex
	table      map[string]entry
	byName     map[string][]string
	namespaces map[string][]string

	templates  *cache.Cache
	theme      map[string]string
	alerts     notice.Emitter
	middleware []Middleware
	handler    Handler
	maxDepth   int
	logger     *slog.Logger
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		table:      make(map[string]entry),
		byName:     make(map[string][]string),
		namespaces: make(map[string][]string),
		templates:  cache.New(DefaultTemplateTTL, DefaultTemplateTTL),
		maxDepth:   DefaultMaxDepth,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.alerts == nil {
		e.alerts = notice.LogEmitter(e.logger)
	}

	e.handler = e.render
	for i := len(e.middleware) - 1; i >= 0; i-- {
		e.handler = e.middleware[i](e.handler)
	}
	return e
}

// Load registers every component of ext. If any qualified name is already
// registered, or a markup component does not compile, nothing is
// registered.
func (e *Engine) Load(ext *component.Extension) error {
	if ext == nil {
		return errors.New("E231").WithDetail("nil extension")
	}
	compiled, err := e.precompile(ext)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, name := range ext.Names() {
		q := ext.Qualified(name)
		if _, exists := e.table[q]; exists {
			return errors.New("E232").WithDetail(q)
		}
	}
	e.insert(ext, compiled)

	e.logger.Info("extension loaded",
		"namespace", ext.Namespace(),
		"components", ext.Len(),
	)
	return nil
}

// Reload replaces every component of ext's namespace with those of ext.
// It is meant for development servers that rebuild extensions from disk.
func (e *Engine) Reload(ext *component.Extension) error {
	if ext == nil {
		return errors.New("E231").WithDetail("nil extension")
	}
	compiled, err := e.precompile(ext)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.remove(ext.Namespace())
	e.insert(ext, compiled)

	e.logger.Info("extension reloaded",
		"namespace", ext.Namespace(),
		"components", ext.Len(),
	)
	return nil
}

// Unload removes a namespace. It reports whether the namespace was loaded.
func (e *Engine) Unload(namespace string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.namespaces[namespace]
	e.remove(namespace)
	return ok
}

// precompile compiles every markup component so load fails on bad markup.
// It returns the templates keyed by cache key.
func (e *Engine) precompile(ext *component.Extension) (map[string]*markup.Template, error) {
	compiled := make(map[string]*markup.Template)
	for _, reg := range ext.Components() {
		mr, ok := reg.Renderer().(*component.MarkupRenderer)
		if !ok {
			continue
		}
		t, err := e.template(mr.Source())
		if err != nil {
			return nil, errors.FromError(err, "E221").WithSuggestion("check the markup of " + ext.Qualified(reg.Name()))
		}
		compiled[templateKey(mr.Source())] = t
	}
	return compiled, nil
}

// insert must be called with e.mu held. The compiled templates of ext stay
// cached until its namespace is removed.
func (e *Engine) insert(ext *component.Extension, compiled map[string]*markup.Template) {
	for key, t := range compiled {
		e.templates.Set(key, t, cache.NoExpiration)
	}

	ns := ext.Namespace()
	for _, reg := range ext.Components() {
		q := ext.Qualified(reg.Name())
		e.table[q] = entry{namespace: ns, reg: reg}
		e.byName[reg.Name()] = append(e.byName[reg.Name()], q)
		e.namespaces[ns] = append(e.namespaces[ns], reg.Name())
	}
}

// remove must be called with e.mu held.
func (e *Engine) remove(namespace string) {
	var released []string
	for _, name := range e.namespaces[namespace] {
		q := namespace + "." + name
		if key, ok := markupKey(e.table[q].reg); ok {
			released = append(released, key)
		}
		delete(e.table, q)

		quals := e.byName[name][:0]
		for _, other := range e.byName[name] {
			if other != q {
				quals = append(quals, other)
			}
		}
		if len(quals) == 0 {
			delete(e.byName, name)
		} else {
			e.byName[name] = quals
		}
	}
	delete(e.namespaces, namespace)

	e.unpin(released)
}

// unpin lets the templates under keys expire unless a component still
// loaded uses them. It must be called with e.mu held.
func (e *Engine) unpin(keys []string) {
	if len(keys) == 0 {
		return
	}
	inUse := make(map[string]bool)
	for _, ent := range e.table {
		if key, ok := markupKey(ent.reg); ok {
			inUse[key] = true
		}
	}
	for _, key := range keys {
		if inUse[key] {
			continue
		}
		if t, found := e.templates.Get(key); found {
			e.templates.Set(key, t, cache.DefaultExpiration)
		}
	}
}

func markupKey(reg *component.Registration) (string, bool) {
	mr, ok := reg.Renderer().(*component.MarkupRenderer)
	if !ok {
		return "", false
	}
	return templateKey(mr.Source()), true
}

// Lookup returns the registration for a qualified name.
func (e *Engine) Lookup(qualified string) (*component.Registration, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.table[qualified]
	return ent.reg, ok
}

// Resolve finds the component a markup tag refers to. Qualified tags are
// looked up directly; unqualified tags must be provided by exactly one
// namespace. It returns the qualified name.
func (e *Engine) Resolve(tag string) (string, *component.Registration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resolveLocked(tag)
}

func (e *Engine) resolveLocked(tag string) (string, *component.Registration, error) {
	if strings.Contains(tag, ".") {
		ent, ok := e.table[tag]
		if !ok {
			return "", nil, errors.New("E234").WithDetail(tag)
		}
		return tag, ent.reg, nil
	}

	quals := e.byName[tag]
	switch len(quals) {
	case 0:
		return "", nil, errors.New("E234").WithDetail(tag)
	case 1:
		return quals[0], e.table[quals[0]].reg, nil
	default:
		sorted := append([]string(nil), quals...)
		sort.Strings(sorted)
		return "", nil, errors.New("E233").
			WithDetailf("%s is provided by %s", tag, strings.Join(sorted, ", ")).
			WithSuggestion("use " + sorted[0])
	}
}

// Info describes a loaded component.
type Info struct {
	Namespace    string
	Name         string
	Registration *component.Registration
}

// Qualified returns Namespace.Name.
func (i Info) Qualified() string { return i.Namespace + "." + i.Name }

// Components lists loaded components ordered by namespace, then in
// extension order.
func (e *Engine) Components() []Info {
	e.mu.RLock()
	defer e.mu.RUnlock()

	namespaces := make([]string, 0, len(e.namespaces))
	for ns := range e.namespaces {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	var out []Info
	for _, ns := range namespaces {
		for _, name := range e.namespaces[ns] {
			out = append(out, Info{
				Namespace:    ns,
				Name:         name,
				Registration: e.table[ns+"."+name].reg,
			})
		}
	}
	return out
}

// Namespaces returns the loaded namespaces, sorted.
func (e *Engine) Namespaces() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.namespaces))
	for ns := range e.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Style returns a theme variable.
func (e *Engine) Style(id string) (string, bool) {
	v, ok := e.theme[id]
	return v, ok
}
