package container

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// canonical returns the NFC form of key. Invalid UTF-8 is returned as is;
// it can never match a stored key.
func canonical(key string) string {
	if !utf8.ValidString(key) {
		return key
	}
	return norm.NFC.String(key)
}

// normalizeKey validates a key for assignment and returns its canonical form.
func normalizeKey(key string) (string, error) {
	if !utf8.ValidString(key) {
		return "", fmt.Errorf("%w: name is not valid UTF-8", types.ErrInvalidKey)
	}
	key = norm.NFC.String(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty names are not allowed", types.ErrInvalidKey)
	}
	return key, nil
}

// ReservedNamesFunc returns the names a container reserves.
type ReservedNamesFunc func(container any) []string

// reservedNamesOf is the default lookup: containers implementing
// types.ReservedNamer reserve what they report, others reserve nothing.
func reservedNamesOf(container any) []string {
	if r, ok := container.(types.ReservedNamer); ok {
		return r.ReservedNames()
	}
	return nil
}

// NameChooser validates names for a container and makes up unique ones.
type NameChooser struct {
	container types.ReadContainer
	reserved  ReservedNamesFunc
}

// NameChooserOption configures a NameChooser.
type NameChooserOption func(*NameChooser)

// WithReservedNamesLookup replaces the reserved-name lookup.
func WithReservedNamesLookup(fn ReservedNamesFunc) NameChooserOption {
	return func(n *NameChooser) {
		if fn != nil {
			n.reserved = fn
		}
	}
}

// NewNameChooser returns a NameChooser for c.
func NewNameChooser(c types.ReadContainer, opts ...NameChooserOption) *NameChooser {
	n := &NameChooser{container: c, reserved: reservedNamesOf}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// CheckName reports whether name may be used for a new item. name must be a
// string or a byte slice holding valid UTF-8. It returns nil when the name is
// usable, an ErrInvalidKey for malformed names, ErrNameReserved for reserved
// names and a KeyError wrapping ErrKeyConflict for names already in use.
func (n *NameChooser) CheckName(name any, _ any) error {
	var s string
	switch v := name.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: invalid name type %T", types.ErrInvalidKey, name)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: name is not valid UTF-8", types.ErrInvalidKey)
	}
	s = norm.NFC.String(s)

	if s == "" {
		return fmt.Errorf("%w: an empty name was provided; names cannot be empty", types.ErrInvalidKey)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "@") || strings.Contains(s, "/") {
		return fmt.Errorf("%w: names cannot begin with '+' or '@' or contain '/'", types.ErrInvalidKey)
	}
	if slices.Contains(n.reserved(n.container), s) {
		return fmt.Errorf("%w: %q", types.ErrNameReserved, s)
	}
	if n.container.Has(s) {
		return types.Conflict(s)
	}
	return nil
}

// ChooseName derives an unused name from hint. Slashes become dashes,
// leading '+' and '@' are dropped, and an empty result falls back to the
// type name of obj. Collisions get "-2", "-3", ... inserted before the last
// extension. The result is passed through CheckName.
func (n *NameChooser) ChooseName(hint any, obj any) (string, error) {
	name := hintString(hint)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.TrimLeft(name, "+@")
	if name == "" {
		name = typeName(obj)
	}
	name = norm.NFC.String(name)

	// The client's extension separator is assumed to be '.'.
	base, suffix := name, ""
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		base, suffix = name[:dot], name[dot:]
	}

	candidate := base + suffix
	for i := 2; n.container.Has(candidate); i++ {
		candidate = base + "-" + strconv.Itoa(i) + suffix
	}

	if err := n.CheckName(candidate, obj); err != nil {
		return "", err
	}
	return candidate, nil
}

// hintString converts a name hint to text, or "" when that is not possible.
func hintString(hint any) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	switch v := hint.(type) {
	case nil:
		return ""
	case string:
		s = v
	case []byte:
		s = string(v)
	case fmt.Stringer:
		s = v.String()
	case error:
		s = v.Error()
	default:
		s = fmt.Sprint(v)
	}
	if !utf8.ValidString(s) {
		return ""
	}
	return s
}

// typeName names the type of obj for use as a fallback item name.
func typeName(obj any) string {
	if obj == nil {
		return "object"
	}
	obj = Unwrap(obj)
	t := reflect.TypeOf(obj)
	if t == nil {
		return "object"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.Kind().String()
}
