package props

import (
	"go.uber.org/zap"

	"cssc/css"
)

// Registry parses declaration values of supported properties. It
// implements css.ValueParser.
type Registry struct {
	log *zap.Logger
}

// NewRegistry creates property value parser.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log.Named("props")}
}

// ParseValue implements css.ValueParser.
func (r *Registry) ParseValue(name string, tokens []css.Token) ([]css.PropertyValue, bool) {
	values, ok := r.Parse(name, tokens)
	if !ok {
		return nil, false
	}
	out := make([]css.PropertyValue, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out, true
}

// Parse parses value of a longhand or shorthand property. Shorthands
// produce one value per longhand they set.
func (r *Registry) Parse(name string, tokens []css.Token) ([]Value, bool) {
	id, longhand := Lookup(name)
	sh, isShorthand := shorthands[name]
	if !longhand && !isShorthand {
		r.log.Debug("Unsupported property", zap.String("property", name))
		return nil, false
	}

	c, ok := components(tokens)
	if !ok || len(c) == 0 {
		return nil, false
	}

	if len(c) == 1 && c[0].isIdent("inherit") {
		if longhand {
			return []Value{{ID: id, Inherit: true}}, true
		}
		out := make([]Value, len(sh.longhands))
		for i, lh := range sh.longhands {
			out[i] = Value{ID: lh, Inherit: true}
		}
		return out, true
	}

	if longhand {
		v, ok := parseAs(id, c)
		if !ok {
			return nil, false
		}
		return []Value{v}, true
	}
	return sh.expand(c)
}
