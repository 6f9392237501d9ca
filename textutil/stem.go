package textutil

import "github.com/kljensen/snowball/english"

// Stem reduces a lowercase word to its Porter2 root ("running" -> "run")
func Stem(word string) string {
	return english.Stem(word, false)
}

// StemAll stems each word in place order
func StemAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Stem(w)
	}
	return out
}

// ContentStems tokenizes text, drops stop words and stems the remainder
func ContentStems(text string) []string {
	return StemAll(RemoveStopWords(Tokenize(text)))
}
