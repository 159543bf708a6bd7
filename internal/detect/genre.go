package detect

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// genreVocabulary backs IsLikelyGenre. Matching is a case-insensitive
// substring test.
var genreVocabulary = []string{
	"action", "adventure", "animation", "anime", "biography", "comedy", "crime", "documentary",
	"drama", "family", "fantasy", "film-noir", "history", "horror", "music", "musical",
	"mystery", "romance", "sci-fi", "science fiction", "sport", "thriller", "war", "western",
	"superhero", "supernatural", "psychological", "noir", "suspense", "indie", "classic",
	"martial arts", "zombie", "vampire", "monster", "slasher", "teen", "kids", "adult",
}

// knownGenres is the display-cased list ExtractGenresFromText reports.
var knownGenres = []string{
	"Action", "Adventure", "Animation", "Anime", "Biography", "Comedy", "Crime", "Documentary",
	"Drama", "Family", "Fantasy", "Film-Noir", "History", "Horror", "Music", "Musical",
	"Mystery", "Romance", "Sci-Fi", "Science Fiction", "Sport", "Thriller", "War", "Western",
	"Superhero", "Supernatural", "Psychological", "Noir", "Suspense", "Indie", "Classic",
}

const (
	maxGenreTokens    = 5
	maxExtractGenres  = 3
	maxGenreListParts = 3
	maxGenrePartLen   = 30
)

var (
	genreTokenSep = func(r rune) bool { return unicode.IsSpace(r) || r == ',' || r == '&' }

	// Punctuation that never appears in a genre label. Commas are allowed
	// here because genre lists are comma separated.
	forbiddenGenrePunct = regexp.MustCompile(`[!@#$%^*()_+=\[\]{}|\\;:'".<>?/]`)
	digitPattern        = regexp.MustCompile(`\d`)

	genreLabelPrefix = regexp.MustCompile(`(?i)^\s*(?:genres?|categor(?:y|ies))\s*:\s*`)
)

// IsLikelyGenre reports whether text looks like a genre label.
//
// Hard rejections (too short, too many tokens, stray punctuation) apply
// first. A vocabulary hit then accepts; otherwise the text must be shaped
// like a label: capitalized, no digits, no commas.
func IsLikelyGenre(text string) bool {
	if utf8.RuneCountInString(text) < 3 {
		return false
	}
	if len(strings.FieldsFunc(text, genreTokenSep)) > maxGenreTokens {
		return false
	}
	if forbiddenGenrePunct.MatchString(text) {
		return false
	}

	lower := strings.ToLower(text)
	for _, genre := range genreVocabulary {
		if strings.Contains(lower, genre) {
			return true
		}
	}

	first, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsUpper(first) {
		return false
	}
	if digitPattern.MatchString(text) || strings.Contains(text, ",") {
		return false
	}
	return true
}

// ExtractGenresFromText scans free text for up to three known genre names
// and returns them comma-joined, or "" when none occur.
func ExtractGenresFromText(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	found := make([]string, 0, maxExtractGenres)
	for _, genre := range knownGenres {
		if strings.Contains(lower, strings.ToLower(genre)) {
			found = append(found, genre)
			if len(found) >= maxExtractGenres {
				break
			}
		}
	}
	return strings.Join(found, ", ")
}

// CleanGenre strips "Genre:"/"Category:" labels, trims a comma list to its
// first three reasonable parts and title-cases every word. The result is a
// fixed point: CleanGenre(CleanGenre(x)) == CleanGenre(x).
func CleanGenre(genre string) string {
	// Each pass only shortens or re-cases the string, so this settles
	// within a couple of iterations.
	for i := 0; i < 8; i++ {
		next := cleanGenreOnce(genre)
		if next == genre {
			break
		}
		genre = next
	}
	return genre
}

func cleanGenreOnce(genre string) string {
	genre = strings.TrimSpace(genre)
	for genreLabelPrefix.MatchString(genre) {
		genre = genreLabelPrefix.ReplaceAllString(genre, "")
	}

	if strings.Contains(genre, ",") {
		parts := strings.Split(genre, ",")
		kept := make([]string, 0, maxGenreListParts)
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" || utf8.RuneCountInString(part) >= maxGenrePartLen {
				continue
			}
			kept = append(kept, part)
			if len(kept) == maxGenreListParts {
				break
			}
		}
		genre = strings.Join(kept, ", ")
	}

	genre = collapseSpaces(genre)
	return titleCaseWords(genre)
}

func titleCaseWords(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
