// Package assessment scores the parent questionnaire: per-category averages,
// an overall score, a severity level and category-specific recommendations.
package assessment

// Category is one of the six learning dimensions the questionnaire covers.
type Category string

const (
	PhonologicalAwareness Category = "phonological_awareness"
	VisualProcessing      Category = "visual_processing"
	ReadingFluency        Category = "reading_fluency"
	WorkingMemory         Category = "working_memory"
	ReadingComprehension  Category = "reading_comprehension"
	Spelling              Category = "spelling"
)

var categoryLabels = map[Category]string{
	PhonologicalAwareness: "Phonological Awareness",
	VisualProcessing:      "Visual Processing",
	ReadingFluency:        "Reading Fluency",
	WorkingMemory:         "Working Memory",
	ReadingComprehension:  "Reading Comprehension",
	Spelling:              "Spelling",
}

// Categories returns every category in questionnaire order.
func Categories() []Category {
	return []Category{
		PhonologicalAwareness,
		VisualProcessing,
		ReadingFluency,
		WorkingMemory,
		ReadingComprehension,
		Spelling,
	}
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	return categoryLabels[c]
}

// Question is a single questionnaire item.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Option is one choice on the frequency scale shown for every question.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var options = []Option{
	{Value: 0, Label: "Never"},
	{Value: 25, Label: "Rarely"},
	{Value: 50, Label: "Sometimes"},
	{Value: 75, Label: "Often"},
	{Value: 100, Label: "Always"},
}

// Options returns the allowed answers, lowest frequency first.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// ValidValue reports whether v is one of the allowed answers.
func ValidValue(v int) bool {
	for _, o := range options {
		if o.Value == v {
			return true
		}
	}
	return false
}

var questions = []Question{
	{ID: "pa1", Category: PhonologicalAwareness, Text: "Does your child have difficulty recognizing words that rhyme?"},
	{ID: "pa2", Category: PhonologicalAwareness, Text: "Does your child struggle to break words into individual sounds or syllables?"},
	{ID: "pa3", Category: PhonologicalAwareness, Text: "Does your child have trouble blending sounds together to form a word?"},

	{ID: "vp1", Category: VisualProcessing, Text: "Does your child reverse letters such as b and d, or p and q?"},
	{ID: "vp2", Category: VisualProcessing, Text: "Does your child lose their place or skip lines while reading?"},
	{ID: "vp3", Category: VisualProcessing, Text: "Does your child complain that letters or words appear to move on the page?"},

	{ID: "rf1", Category: ReadingFluency, Text: "Does your child read noticeably slower than other children of the same age?"},
	{ID: "rf2", Category: ReadingFluency, Text: "Does your child guess at words instead of sounding them out?"},
	{ID: "rf3", Category: ReadingFluency, Text: "Does your child avoid reading aloud?"},

	{ID: "wm1", Category: WorkingMemory, Text: "Does your child have trouble following instructions with several steps?"},
	{ID: "wm2", Category: WorkingMemory, Text: "Does your child forget sequences such as the days of the week or the alphabet?"},
	{ID: "wm3", Category: WorkingMemory, Text: "Does your child forget what they were about to say or write?"},

	{ID: "rc1", Category: ReadingComprehension, Text: "Does your child struggle to retell a story they have just read?"},
	{ID: "rc2", Category: ReadingComprehension, Text: "Does your child understand a story better when it is read to them than when they read it?"},
	{ID: "rc3", Category: ReadingComprehension, Text: "Does your child have difficulty answering questions about a passage they read?"},

	{ID: "sp1", Category: Spelling, Text: "Does your child spell the same word differently within one piece of writing?"},
	{ID: "sp2", Category: Spelling, Text: "Does your child spell words the way they sound rather than how they are written?"},
	{ID: "sp3", Category: Spelling, Text: "Does your child have difficulty remembering spelling words after practice?"},
}

var questionIndex = func() map[string]Question {
	idx := make(map[string]Question, len(questions))
	for _, q := range questions {
		idx[q.ID] = q
	}
	return idx
}()

var categorySizes = func() map[Category]int {
	sizes := make(map[Category]int, len(categoryLabels))
	for _, q := range questions {
		sizes[q.Category]++
	}
	return sizes
}()

// Questions returns the questionnaire in presentation order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// FindQuestion looks up a question by ID.
func FindQuestion(id string) (Question, bool) {
	q, ok := questionIndex[id]
	return q, ok
}
