package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"netflix suffix", "Inception - Netflix", "Inception"},
		{"suffix case insensitive", "Inception - NETFLIX", "Inception"},
		{"disney plus suffix", "Moana - Disney+", "Moana"},
		{"pipe suffix", "Barbie | Prime Video", "Barbie"},
		{"watch on clause", "Dune Watch on HBO Max", "Dune"},
		{"dash watch clause", "Arrival - Watch Free", "Arrival"},
		{"trailing parenthetical", "Oppenheimer (2023)", "Oppenheimer"},
		{"watch prefix", "watch   The   Matrix", "The Matrix"},
		{"collapses whitespace", "  Blade \t Runner\n2049 ", "Blade Runner 2049"},
		{"double quotes", `"Dune"`, "Dune"},
		{"single quotes", `'Heat'`, "Heat"},
		{"quotes with trailing spaces", `"Alien"   `, "Alien"},
		{"one layer only", `""Dune""`, `"Dune"`},
		{"unbalanced quote kept", `"Dune`, `"Dune`},
		{"lone quote", `"`, ""},
		{"empty quotes", `''`, ""},
		{"inner content verbatim", "Spider-Man: Across the Spider-Verse - Netflix", "Spider-Man: Across the Spider-Verse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.input))
		})
	}
}
