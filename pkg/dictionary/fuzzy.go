package dictionary

import (
	"log"
	"sort"

	"github.com/sajari/fuzzy"
)

// model returns the fuzzy model trained on this dictionary's words. It is
// built on first use and shared by later calls.
func (d *Dictionary) model() *fuzzy.Model {
	d.fuzzyOnce.Do(func() {
		model := fuzzy.NewModel()

		// Maximum edit distance
		model.SetDepth(2)
		// Every dictionary word is trained once, so any count qualifies.
		model.SetThreshold(0)
		model.SetUseAutocomplete(false)

		model.Train(d.words)
		d.fuzzyModel = model

		log.Printf("[Dictionary] Trained fuzzy model with %d words", len(d.words))
	})
	return d.fuzzyModel
}

// Closest returns up to n dictionary words within edit distance two of word,
// closest first. A word that is itself a key is returned alone.
func (d *Dictionary) Closest(word string, n int) []string {
	if d.Len() == 0 || n <= 0 {
		return nil
	}

	if key, ok := d.Word(word); ok {
		return []string{key}
	}
	key := Normalize(word)

	candidates := d.model().SpellCheckSuggestions(key, n)

	// The model ranks by training frequency, which is flat here; order by
	// distance instead so the nearest word comes first.
	sort.SliceStable(candidates, func(i, j int) bool {
		return levenshtein(key, candidates[i]) < levenshtein(key, candidates[j])
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
