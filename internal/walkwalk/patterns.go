package walkwalk

import "strings"

// Patterns decides which file names are eligible for rewriting. Matching is
// done on the base name only and is case-sensitive.
type Patterns struct {
	// Extensions includes the leading dot (".c"). The name must have at least
	// one character before the extension, so a file called ".c" is skipped.
	Extensions []string
	// Names are exact base names, e.g. "CMakeLists.txt".
	Names []string
	// Prefixes match the prefix itself or the prefix followed by a dotted
	// suffix: "Kconfig" matches "Kconfig" and "Kconfig.defconfig" but not
	// "Kconfig." or "Kconfigs".
	Prefixes []string
}

// DefaultPatterns covers C/C++ sources and headers, reStructuredText docs,
// Kconfig fragments, YAML, CMake lists and Kconfig files.
func DefaultPatterns() Patterns {
	return Patterns{
		Extensions: []string{".c", ".cpp", ".h", ".hpp", ".rst", ".conf", ".yml", ".yaml"},
		Names:      []string{"CMakeLists.txt"},
		Prefixes:   []string{"Kconfig"},
	}
}

// Match reports whether name is eligible.
func (p Patterns) Match(name string) bool {
	for _, ext := range p.Extensions {
		if len(name) > len(ext) && strings.HasSuffix(name, ext) {
			return true
		}
	}
	for _, n := range p.Names {
		if name == n {
			return true
		}
	}
	for _, pre := range p.Prefixes {
		if name == pre {
			return true
		}
		if rest, ok := strings.CutPrefix(name, pre+"."); ok && rest != "" {
			return true
		}
	}
	return false
}
