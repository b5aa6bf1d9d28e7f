package pronunciation

import "strings"

// defaultWords is the word list used by the "say it aloud" exercise.
var defaultWords = []WordTarget{
	{Word: "cat", Pronunciation: "kat"},
	{Word: "dog", Pronunciation: "dawg"},
	{Word: "sun", Pronunciation: "suhn"},
	{Word: "fish", Pronunciation: "fish"},
	{Word: "bird", Pronunciation: "burd"},
	{Word: "tree", Pronunciation: "tree"},
	{Word: "house", Pronunciation: "hows"},
	{Word: "apple", Pronunciation: "ap-uhl"},
	{Word: "water", Pronunciation: "waw-ter"},
	{Word: "school", Pronunciation: "skool"},
	{Word: "friend", Pronunciation: "frend"},
	{Word: "elephant", Pronunciation: "el-uh-fuhnt"},
}

// Words returns a copy of the exercise word list.
func Words() []WordTarget {
	out := make([]WordTarget, len(defaultWords))
	copy(out, defaultWords)
	return out
}

// FindWord looks up a target by its word, ignoring case.
func FindWord(word string) (WordTarget, bool) {
	for _, w := range defaultWords {
		if strings.EqualFold(w.Word, strings.TrimSpace(word)) {
			return w, true
		}
	}
	return WordTarget{}, false
}
