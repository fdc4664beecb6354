package launchbox

import (
	"strings"
	"unicode"
)

// NormalizeName reduces a game or file name to a fuzzy lookup key:
// extension and parenthesized/bracketed tags stripped, trailing article
// moved to the front, lowercased, punctuation folded to spaces.
func NormalizeName(name string) string {
	name = stripExtension(name)
	name = stripTags(name)
	name = moveTrailingArticle(name)
	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripExtension removes a short alphanumeric extension such as ".gb"
// or ".sfc", leaving dots inside real titles alone.
func stripExtension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name
	}
	ext := name[idx+1:]
	if len(ext) == 0 || len(ext) > 4 {
		return name
	}
	for _, r := range ext {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return name
		}
	}
	return name[:idx]
}

// stripTags drops everything inside parentheses and square brackets.
func stripTags(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	var parens, brackets int
	for _, r := range name {
		switch r {
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case '[':
			brackets++
		case ']':
			if brackets > 0 {
				brackets--
			}
		default:
			if parens == 0 && brackets == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// moveTrailingArticle rewrites the No-Intro article convention:
// "Legend of Zelda, The" becomes "The Legend of Zelda".
func moveTrailingArticle(name string) string {
	idx := strings.LastIndex(name, ", ")
	if idx < 0 {
		return name
	}
	article := strings.TrimSpace(name[idx+2:])
	switch strings.ToLower(article) {
	case "the", "a", "an":
		return article + " " + strings.TrimSpace(name[:idx])
	}
	return name
}
