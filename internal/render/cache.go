package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// poolKey identifies one renderer configuration. Style holds the resolved
// glamour style name, or the file path when File is set, so theme aliases
// such as "sierra" and "dark" share a pool.
type poolKey struct {
	Style            string
	File             bool
	Width            int
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

func keyFor(opts Options) poolKey {
	key := poolKey{
		Width:            opts.Width,
		EnableEmoji:      opts.EnableEmoji,
		PreserveNewLines: opts.PreserveNewLines,
		TableWrap:        opts.TableWrap,
		InlineTableLinks: opts.InlineTableLinks,
	}
	if name, ok := glamourStyle(opts.Style); ok {
		key.Style = name
	} else {
		key.Style = opts.Style
		key.File = true
	}
	return key
}

// rendererPool lends glamour renderers per configuration. A TermRenderer
// must not render from two goroutines at once, and the chat view and the
// one-shot command both render answers while the TUI reloads its config.
type rendererPool struct {
	mu    sync.Mutex
	pools map[poolKey]*sync.Pool
}

var globalPool = newRendererPool()

func newRendererPool() *rendererPool {
	return &rendererPool{pools: make(map[poolKey]*sync.Pool)}
}

func (p *rendererPool) poolFor(key poolKey) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[key]
	if !ok {
		pool = &sync.Pool{}
		p.pools[key] = pool
	}
	return pool
}

// borrow returns an idle renderer for opts or builds a new one.
// A style file that fails to load is reported on every call.
func (p *rendererPool) borrow(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.poolFor(keyFor(opts)).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return createRenderer(opts)
}

// release hands r back for reuse with the same options
func (p *rendererPool) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.poolFor(keyFor(opts)).Put(r)
}

func (p *rendererPool) reset() {
	p.mu.Lock()
	p.pools = make(map[poolKey]*sync.Pool)
	p.mu.Unlock()
}

func (p *rendererPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pools)
}

// createRenderer builds a renderer for a bundled theme or a JSON style file
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	key := keyFor(opts)

	styleOpt := glamour.WithStandardStyle(key.Style)
	if key.File {
		styleOpt = glamour.WithStylePath(key.Style)
	}

	rendererOpts := []glamour.TermRendererOption{
		styleOpt,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops every pooled renderer. The chat TUI calls it when the
// config file changes, so a style file edited in place is read again.
func ClearCache() {
	globalPool.reset()
}

// CacheSize returns the number of renderer configurations in use
func CacheSize() int {
	return globalPool.size()
}
