package catalog

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// SpeechTask is a fixed catalog entry for one speech-elicitation prompt.
// Tasks carrying UnlockAfterTaskID stay locked until the prerequisite task
// completes plus UnlockDelayMs (delayed recall).
type SpeechTask struct {
	ID                     string `json:"id" yaml:"id"`
	Title                  string `json:"title" yaml:"title"`
	Description            string `json:"description" yaml:"description"`
	Prompt                 string `json:"prompt" yaml:"prompt"`
	StoryScript            string `json:"storyScript,omitempty" yaml:"story_script,omitempty"`
	FluencyType            string `json:"fluencyType,omitempty" yaml:"fluency_type,omitempty"`
	FluencyTarget          string `json:"fluencyTarget,omitempty" yaml:"fluency_target,omitempty"`
	MaxDurationMs          int64  `json:"maxDurationMs" yaml:"max_duration_ms"`
	HideScriptDuringRecall bool   `json:"hideScriptDuringRecall,omitempty" yaml:"hide_script_during_recall,omitempty"`
	UnlockAfterTaskID      string `json:"unlockAfterTaskId,omitempty" yaml:"unlock_after_task_id,omitempty"`
	UnlockDelayMs          int64  `json:"unlockDelayMs,omitempty" yaml:"unlock_delay_ms,omitempty"`
}

// CognitiveTask is a per-session randomized micro-task. For sequence tasks
// SequenceAnswer holds indices into Options, never into the canonical word
// list; Options is shuffled exactly once and the answer derived from that
// shuffled slice.
type CognitiveTask struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  *int     `json:"correctAnswer,omitempty"`
	SequenceAnswer []int    `json:"sequenceAnswer,omitempty"`
}

// Cognitive task types and their scoring domains. The generated catalog has
// no "tapping" task, so the language domain never accumulates score; that is
// a known gap between catalog and rubric, kept until product clarifies it.
const (
	TypeWordRecall   = "word-recall"
	TypeDigitSpan    = "digit-span"
	TypeAttention    = "attention"
	TypeTapping      = "tapping"
	TypeClockDrawing = "clock-drawing"
)

var speechTasks = []SpeechTask{
	{
		ID:            "picture-description",
		Title:         "Picture Description",
		Description:   "Describe the scene shown in the picture prompt in as much detail as possible.",
		Prompt:        "Imagine you are looking at a photo of a family cooking together in a kitchen. Describe everything you see.",
		MaxDurationMs: 120_000,
	},
	{
		ID:                     "story-immediate-recall",
		Title:                  "Story Recall (Immediate)",
		Description:            "Listen to a narrated story and repeat everything you remember immediately.",
		Prompt:                 "After hearing the story, retell it in your own words. Mention the key events, people, places, and any details that stood out.",
		StoryScript:            "Ravi woke up early on Sunday and decided to visit the weekly farmer's market. He bought fresh tomatoes, leafy spinach, and sweet mangoes for his mother. On the way out, he bumped into his old friend Sunil, who invited him for tea later that evening.",
		MaxDurationMs:          120_000,
		HideScriptDuringRecall: true,
	},
	{
		ID:            "category-fluency",
		Title:         "Verbal Fluency (Category)",
		Description:   "Name as many items in the requested category as you can within one minute.",
		Prompt:        "Say as many animal names as you can in one minute. Avoid repeating the same animal twice.",
		FluencyType:   "category",
		FluencyTarget: "Animals",
		MaxDurationMs: 60_000,
	},
	{
		ID:            "letter-fluency",
		Title:         "Verbal Fluency (Letter)",
		Description:   "Say as many words as you can that start with the given letter.",
		Prompt:        "Say as many words as you can that begin with the letter 'K'. Avoid using names or repeating words.",
		FluencyType:   "letter",
		FluencyTarget: "K",
		MaxDurationMs: 60_000,
	},
	{
		ID:            "procedural-description",
		Title:         "Explain a Routine",
		Description:   "Walk through a familiar procedure step-by-step to capture sequencing and executive function.",
		Prompt:        "Explain how you would prepare your favorite breakfast, including all the steps, tools, and timing you rely on.",
		MaxDurationMs: 90_000,
	},
	{
		ID:            "guided-imagery",
		Title:         "Guided Imagery",
		Description:   "Imagine a calming place and describe it with rich sensory detail.",
		Prompt:        "Close your eyes and picture your ideal peaceful location. Describe what you see, hear, smell, and feel as if you are truly there.",
		MaxDurationMs: 90_000,
	},
	{
		ID:            "future-planning",
		Title:         "Future Planning",
		Description:   "Outline an upcoming day or event to evaluate sequencing and organization.",
		Prompt:        "Walk me through your plans for tomorrow from morning to night. Mention the people involved, places you'll go, and anything you need to remember.",
		MaxDurationMs: 90_000,
	},
	{
		ID:            "free-conversation",
		Title:         "Open Conversation",
		Description:   "Speak freely about how technology has changed communication in your lifetime.",
		Prompt:        "Share your thoughts about how technology has changed communication in your lifetime.",
		MaxDurationMs: 90_000,
	},
	{
		ID:                     "story-delayed-recall",
		Title:                  "Story Recall (Delayed)",
		Description:            "After completing the other speech tasks, recall the same story again without hearing it.",
		Prompt:                 "Describe the story you heard earlier, including who was involved, what happened, and any locations or objects mentioned.",
		MaxDurationMs:          120_000,
		HideScriptDuringRecall: true,
		UnlockAfterTaskID:      "story-immediate-recall",
		UnlockDelayMs:          3 * 60 * 1000,
	},
	{
		ID:            "self-reflection",
		Title:         "Self Reflection",
		Description:   "Reflect on how the assessment felt and note any moments you found challenging.",
		Prompt:        "Share a brief reflection on which tasks felt easiest or hardest today and why you think that was the case.",
		MaxDurationMs: 90_000,
	},
}

// SpeechTasks returns the fixed ordered speech task list.
func SpeechTasks() []SpeechTask {
	out := make([]SpeechTask, len(speechTasks))
	copy(out, speechTasks)
	return out
}

// Generator builds the randomized per-session cognitive task list from
// language-specific word pools.
type Generator struct {
	pools map[string][]string
	rand  *rand.Rand
}

// NewGenerator builds a Generator over the given word pools. A nil map uses
// the built-in pools.
func NewGenerator(pools map[string][]string) *Generator {
	if pools == nil {
		pools = builtinWordPools
	}
	return &Generator{
		pools: pools,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededGenerator is NewGenerator with a fixed seed, for tests.
func NewSeededGenerator(pools map[string][]string, seed int64) *Generator {
	g := NewGenerator(pools)
	g.rand = rand.New(rand.NewSource(seed))
	return g
}

// CognitiveTasks returns a fresh list of 7 cognitive tasks for one session.
// Unsupported language codes silently fall back to the English pool.
func (g *Generator) CognitiveTasks(language string) []CognitiveTask {
	lex, ok := g.pools[language]
	if !ok {
		lex = g.pools["en"]
	}

	shuffled := g.shuffleStrings(lex)
	poolA := shuffled[:5]
	poolB := g.shuffleStrings(shuffled[5:])[:5]

	word1 := g.makeWordRecallTask("word-recall", "Word Recall", poolA)
	word2 := g.makeWordRecallTask("word-recall-2", "Word Recall II", poolB)

	digit1 := g.makeDigitSpanTask("digit-span", "Digit Span", []int{3, 9, 1, 4, 7})
	digit2 := g.makeDigitSpanTask("digit-span-reverse", "Digit Span (Reverse)", []int{7, 2, 9, 3})

	zero := 0
	attention := CognitiveTask{
		ID:            "attention-sequence",
		Type:          TypeAttention,
		Title:         "Attention Pattern",
		Description:   "Continue the color sequence.",
		Prompt:        "Red -> Blue -> Red -> Blue -> ?",
		Options:       []string{"Red", "Blue", "Green"},
		CorrectAnswer: &zero,
	}
	visual := CognitiveTask{
		ID:            "attention-visual",
		Type:          TypeAttention,
		Title:         "Visual Search",
		Description:   "Find the odd-one-out.",
		Prompt:        "Square, Square, Circle, Square -> Which is different?",
		Options:       []string{"Circle", "Square", "Triangle"},
		CorrectAnswer: &zero,
	}
	clock := CognitiveTask{
		ID:          "clock-drawing",
		Type:        TypeClockDrawing,
		Title:       "Clock Drawing",
		Description: "Imagine drawing a clock showing the time 10 past 11.",
		Prompt:      "Picture a clock and describe how you would place the numbers and hands for 11:10.",
	}

	return []CognitiveTask{word1, digit1, attention, word2, digit2, visual, clock}
}

// makeWordRecallTask shuffles the target words once, then derives the
// expected tap order as indices into that exact shuffled slice.
func (g *Generator) makeWordRecallTask(id, title string, words []string) CognitiveTask {
	options := g.shuffleStrings(words)
	answer := make([]int, len(words))
	for i, w := range words {
		answer[i] = indexOf(options, w)
	}
	return CognitiveTask{
		ID:             id,
		Type:           TypeWordRecall,
		Title:          title,
		Description:    "Remember the list of words and tap them in the same order after Begin.",
		Prompt:         "Remember the words: " + strings.Join(words, ", ") + ".",
		Options:        options,
		SequenceAnswer: answer,
	}
}

// makeDigitSpanTask mixes the target digits with 5 random distinct
// distractors, shuffles the pool once, then maps the expected order into it.
func (g *Generator) makeDigitSpanTask(id, title string, digits []int) CognitiveTask {
	all := g.rand.Perm(10)[:5]
	seen := make(map[int]bool, len(digits)+len(all))
	pool := make([]int, 0, len(digits)+len(all))
	for _, d := range append(append([]int{}, digits...), all...) {
		if !seen[d] {
			seen[d] = true
			pool = append(pool, d)
		}
	}
	g.rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	options := make([]string, len(pool))
	for i, d := range pool {
		options[i] = strconv.Itoa(d)
	}
	answer := make([]int, len(digits))
	parts := make([]string, len(digits))
	for i, d := range digits {
		answer[i] = indexOf(options, strconv.Itoa(d))
		parts[i] = strconv.Itoa(d)
	}
	return CognitiveTask{
		ID:             id,
		Type:           TypeDigitSpan,
		Title:          title,
		Description:    "Tap the digits in the exact order after Begin.",
		Prompt:         strings.Join(parts, ", "),
		Options:        options,
		SequenceAnswer: answer,
	}
}

func (g *Generator) shuffleStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	g.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func indexOf(options []string, value string) int {
	for i, v := range options {
		if v == value {
			return i
		}
	}
	return -1
}
