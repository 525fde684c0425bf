package textmark

import (
	"time"

	"github.com/dshills/textmark/config"
	"github.com/dshills/textmark/dom"
	"github.com/dshills/textmark/logging"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger. The highlighter and observers
// derive component loggers from it.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithWindow attaches the host window so navigation resets highlight
// state. Without one the manager never sees URL changes.
func WithWindow(win *dom.Window) Option {
	return func(m *Manager) { m.win = win }
}

// WithContextLength overrides the grapheme budget for quote context.
func WithContextLength(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.anchorOpts.ContextLength = n
		}
	}
}

// WithMaxFuzzyErrors bounds fuzzy matching. Negative derives the
// budget from the quote length; zero disables fuzzy matching.
func WithMaxFuzzyErrors(n int) Option {
	return func(m *Manager) { m.anchorOpts.MaxFuzzyErrors = n }
}

// WithDebounce sets the quiet interval before content changes trigger
// re-anchoring.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithMarkerClassName overrides the class applied to marker elements.
func WithMarkerClassName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.className = name
		}
	}
}

// WithDefaultColor sets the color used for highlights carrying none.
func WithDefaultColor(color string) Option {
	return func(m *Manager) {
		if color != "" {
			m.defaultColor = color
		}
	}
}

// WithEventHandler registers fn before the manager emits anything.
func WithEventHandler(fn EventFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.handlers[m.nextHandlerID] = fn
			m.nextHandlerID++
		}
	}
}

// WithConfig applies the tunable fields of cfg: context length, fuzzy
// budget, debounce, marker class, and default color. Logging stays
// whatever WithLogger set; build a logger from cfg.Logging() to honor
// the configured level.
func WithConfig(cfg config.Config) Option {
	return func(m *Manager) {
		m.anchorOpts = cfg.AnchorOptions()
		if d := cfg.DebounceInterval.Std(); d > 0 {
			m.debounce = d
		}
		if cfg.MarkerClassName != "" {
			m.className = cfg.MarkerClassName
		}
		if cfg.DefaultColor != "" {
			m.defaultColor = cfg.DefaultColor
		}
	}
}
