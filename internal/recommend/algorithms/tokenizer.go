// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package algorithms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the shortest token kept.
const minTokenRunes = 2

// tokenize splits text into lowercase tokens. A token is a maximal run of
// letters, digits or underscores at least two runes long.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if utf8.RuneCountInString(tok) < minTokenRunes {
		return tokens
	}
	return append(tokens, tok)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// analyze tokenizes text, drops stop words and emits n-grams for every n in
// [minN, maxN]. Unigrams come first, then bigrams and so on.
func analyze(text string, stop wordSet, minN, maxN int) []string {
	tokens := tokenize(text)
	if stop != nil {
		kept := tokens[:0]
		for _, t := range tokens {
			if !stop.contains(t) {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	if minN == 1 && maxN == 1 {
		return tokens
	}

	grams := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				grams = append(grams, tokens[i])
				continue
			}
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
