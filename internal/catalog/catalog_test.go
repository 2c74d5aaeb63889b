package catalog

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskByID(t *testing.T, tasks []CognitiveTask, id string) CognitiveTask {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not generated", id)
	return CognitiveTask{}
}

func TestSpeechTasksFixedCatalog(t *testing.T) {
	tasks := SpeechTasks()
	require.Len(t, tasks, 10)

	ids := make(map[string]int, len(tasks))
	for i, task := range tasks {
		ids[task.ID] = i
		assert.NotEmpty(t, task.Title)
		assert.NotEmpty(t, task.Prompt)
	}

	delayed := tasks[ids["story-delayed-recall"]]
	assert.Equal(t, "story-immediate-recall", delayed.UnlockAfterTaskID)
	assert.Equal(t, int64(3*60*1000), delayed.UnlockDelayMs)

	// The returned slice is a copy; mutating it must not poison the catalog.
	tasks[0].Title = "mutated"
	assert.NotEqual(t, "mutated", SpeechTasks()[0].Title)
}

func TestCognitiveTaskComposition(t *testing.T) {
	g := NewSeededGenerator(nil, 1)
	tasks := g.CognitiveTasks("en")
	require.Len(t, tasks, 7)

	counts := make(map[string]int)
	for _, task := range tasks {
		counts[task.Type]++
	}
	assert.Equal(t, 2, counts[TypeWordRecall])
	assert.Equal(t, 2, counts[TypeDigitSpan])
	assert.Equal(t, 2, counts[TypeAttention])
	assert.Equal(t, 1, counts[TypeClockDrawing])
}

func TestWordRecallSequenceAnswerReconstructsTargets(t *testing.T) {
	// Across many shuffles, walking sequenceAnswer through the shuffled
	// options must always reproduce the prompted word order.
	for seed := int64(0); seed < 25; seed++ {
		g := NewSeededGenerator(nil, seed)
		tasks := g.CognitiveTasks("en")

		for _, id := range []string{"word-recall", "word-recall-2"} {
			task := taskByID(t, tasks, id)
			require.Len(t, task.SequenceAnswer, 5)

			prompted := strings.TrimSuffix(strings.TrimPrefix(task.Prompt, "Remember the words: "), ".")
			words := strings.Split(prompted, ", ")
			require.Len(t, words, 5)

			for i, optionIdx := range task.SequenceAnswer {
				require.GreaterOrEqual(t, optionIdx, 0)
				require.Less(t, optionIdx, len(task.Options))
				assert.Equal(t, words[i], task.Options[optionIdx], "seed %d task %s position %d", seed, id, i)
			}
		}
	}
}

func TestWordRecallPoolsDisjoint(t *testing.T) {
	g := NewSeededGenerator(nil, 7)
	tasks := g.CognitiveTasks("en")

	first := taskByID(t, tasks, "word-recall")
	second := taskByID(t, tasks, "word-recall-2")

	seen := make(map[string]bool)
	for _, w := range first.Options {
		seen[w] = true
	}
	for _, w := range second.Options {
		assert.False(t, seen[w], "word %q appears in both recall tasks", w)
	}
}

func TestDigitSpanAnswerMapsIntoOptions(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := NewSeededGenerator(nil, seed)
		tasks := g.CognitiveTasks("en")

		cases := map[string][]int{
			"digit-span":         {3, 9, 1, 4, 7},
			"digit-span-reverse": {7, 2, 9, 3},
		}
		for id, digits := range cases {
			task := taskByID(t, tasks, id)
			require.Len(t, task.SequenceAnswer, len(digits))
			for i, optionIdx := range task.SequenceAnswer {
				require.GreaterOrEqual(t, optionIdx, 0, "seed %d", seed)
				assert.Equal(t, strconv.Itoa(digits[i]), task.Options[optionIdx])
			}
			// Distractors make the pool strictly larger than the target.
			assert.Greater(t, len(task.Options), len(digits))
		}
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	g := NewSeededGenerator(nil, 3)
	tasks := g.CognitiveTasks("xx")

	task := taskByID(t, tasks, "word-recall")
	english := make(map[string]bool)
	for _, w := range builtinWordPools["en"] {
		english[w] = true
	}
	for _, w := range task.Options {
		assert.True(t, english[w], "option %q not from the English pool", w)
	}
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := NewSeededGenerator(nil, 11).CognitiveTasks("en")
	b := NewSeededGenerator(nil, 11).CognitiveTasks("en")
	assert.Equal(t, a, b)
}

func TestShufflesVaryAcrossCalls(t *testing.T) {
	// Each call draws fresh randomness; over several calls at least one
	// word-recall shuffle must differ.
	g := NewSeededGenerator(nil, 11)
	baseline := taskByID(t, g.CognitiveTasks("en"), "word-recall").Options

	varied := false
	for i := 0; i < 10 && !varied; i++ {
		next := taskByID(t, g.CognitiveTasks("en"), "word-recall").Options
		if !assert.ObjectsAreEqual(baseline, next) {
			varied = true
		}
	}
	assert.True(t, varied, "ten consecutive shuffles were identical")
}
