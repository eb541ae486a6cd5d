package analyzer

import (
	"iter"
	"strings"
	"unicode"
)

// TokenSet - множество уникальных токенов текста.
type TokenSet map[string]struct{}

// Tokens лениво выдаёт токены текста: максимальные последовательности букв и цифр
// в нижнем регистре. Любой другой символ - разделитель. Последовательность можно
// перезапускать, состояние между вызовами не хранится.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i, r := range text {
			if isWordRune(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(strings.ToLower(text[start:i])) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(strings.ToLower(text[start:]))
		}
	}
}

func NewTokenSet(text string) TokenSet {
	set := make(TokenSet)
	for token := range Tokens(text) {
		set[token] = struct{}{}
	}
	return set
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
