package icons

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// RegistrationSymbol registers icon constants with the icon runtime.
	RegistrationSymbol = "addIcons"
	// RegistrationModule exports RegistrationSymbol.
	RegistrationModule = "ionicons"
	// ConstantsModule exports one constant per icon, named by ToIdentifier.
	ConstantsModule = "ionicons/icons"
)

var kebabName = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsValidName reports whether name is a lowercase hyphen-separated icon name.
func IsValidName(name string) bool {
	return kebabName.MatchString(name)
}

// ToIdentifier converts an icon name into the constant that exports it:
// "logo-ionic" becomes "logoIonic".
func ToIdentifier(kebab string) string {
	segments := strings.Split(kebab, "-")

	var b strings.Builder
	b.Grow(len(kebab))
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == 0 {
			b.WriteString(segment)
			continue
		}
		b.WriteString(strings.ToUpper(segment[:1]))
		b.WriteString(segment[1:])
	}
	return b.String()
}

// ToKebab reverses ToIdentifier for identifiers produced from valid names.
// Segments after the first that start with a digit lose their hyphen:
// "logo-500px" becomes "logo500px" and stays that way.
func ToKebab(identifier string) string {
	var b strings.Builder
	b.Grow(len(identifier) + 4)
	for i, r := range identifier {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
