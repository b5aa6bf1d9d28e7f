package assessment

// Band groups category scores for picking recommendation text.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

const (
	highBandMin   = 50
	mediumBandMin = 25
)

// BandFor maps a category score to its recommendation band.
func BandFor(score float64) Band {
	switch {
	case score >= highBandMin:
		return BandHigh
	case score >= mediumBandMin:
		return BandMedium
	default:
		return BandLow
	}
}

// GenericEncouragement is given for every category that scores in the low band.
const GenericEncouragement = "Continue to encourage reading and learning activities at home."

var recommendationTable = map[Category]map[Band][]string{
	PhonologicalAwareness: {
		BandHigh: {
			"Practice rhyming games and songs daily to build sound awareness.",
			"Work with a reading specialist on structured phonics instruction.",
			"Use clapping or tapping to break words into syllables together.",
		},
		BandMedium: {
			"Play word games that focus on beginning and ending sounds.",
			"Read rhyming books aloud and pause to let your child fill in the rhyme.",
		},
	},
	VisualProcessing: {
		BandHigh: {
			"Ask about an evaluation by a developmental optometrist.",
			"Use a reading ruler or line marker to help track text.",
			"Try larger fonts and extra line spacing in reading materials.",
		},
		BandMedium: {
			"Practice letter formation with multisensory methods such as tracing in sand.",
			"Use a finger or bookmark to keep place while reading.",
		},
	},
	ReadingFluency: {
		BandHigh: {
			"Schedule short, daily repeated-reading sessions with familiar texts.",
			"Pair audiobooks with printed text so your child can follow along.",
			"Consult a reading specialist about a structured fluency program.",
		},
		BandMedium: {
			"Take turns reading pages aloud to model smooth, expressive reading.",
			"Re-read favorite books to build confidence and speed.",
		},
	},
	WorkingMemory: {
		BandHigh: {
			"Give instructions one step at a time and ask your child to repeat them back.",
			"Use visual checklists and routines for daily tasks.",
			"Discuss working memory support strategies with your child's teacher.",
		},
		BandMedium: {
			"Play memory games such as matching cards or I-spy sequences.",
			"Break larger tasks into smaller, clearly labelled steps.",
		},
	},
	ReadingComprehension: {
		BandHigh: {
			"Discuss each page or chapter as you read together.",
			"Use graphic organizers to map characters, setting and events.",
			"Ask a teacher about targeted comprehension support.",
		},
		BandMedium: {
			"Ask open questions about stories before, during and after reading.",
			"Encourage your child to retell stories in their own words.",
		},
	},
	Spelling: {
		BandHigh: {
			"Use multisensory spelling practice such as saying, tracing and writing each word.",
			"Teach common spelling patterns and word families explicitly.",
			"Ask about assistive technology such as spell checkers or word prediction.",
		},
		BandMedium: {
			"Practice a few spelling words each day instead of many at once.",
			"Use letter tiles or magnetic letters to build words.",
		},
	},
}

// Recommendations returns the advice for a category at the given score.
func Recommendations(c Category, score float64) []string {
	band := BandFor(score)
	if band == BandLow {
		return []string{GenericEncouragement}
	}
	recs := recommendationTable[c][band]
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
