package vcf

import "strings"

// Info is the INFO column split into KEY=VALUE pairs and bare flags.
type Info struct {
	Values map[string]string
	Flags  []string
}

// ParseInfo splits an INFO string on ";". Tokens containing "=" are split at
// the first "=" into Values, repeated keys keeping the last value. Other
// tokens are kept in order as Flags. The missing value "." yields an empty Info.
func ParseInfo(info string) Info {
	result := Info{Values: make(map[string]string)}
	if info == "." || info == "" {
		return result
	}

	for _, tok := range strings.Split(info, ";") {
		if k, v, ok := strings.Cut(tok, "="); ok {
			result.Values[k] = v
		} else {
			result.Flags = append(result.Flags, tok)
		}
	}
	return result
}

// Get returns the value of a KEY=VALUE token.
func (i Info) Get(key string) (string, bool) {
	v, ok := i.Values[key]
	return v, ok
}

// HasFlag reports whether a bare flag token is present.
func (i Info) HasFlag(flag string) bool {
	for _, f := range i.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
