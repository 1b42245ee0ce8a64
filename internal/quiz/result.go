package quiz

import "strings"

// Assessment is the synchronous interpretation stored on a record before any
// AI analysis runs.
type Assessment struct {
	Label       string
	Summary     string
	Suggestions string
	References  string
}

type band struct {
	upTo        float64 // inclusive upper bound of the score ratio
	label       string
	summary     string
	suggestions []string
}

var bands = []band{
	{
		upTo:    0.25,
		label:   "Low",
		summary: "Your answers point to a low level on this dimension. Things look steady right now.",
		suggestions: []string{
			"Keep the routines that are working for you.",
			"Check in with yourself again in a few weeks.",
		},
	},
	{
		upTo:    0.5,
		label:   "Mild",
		summary: "Your answers point to a mild level on this dimension. Some areas may deserve attention.",
		suggestions: []string{
			"Notice which situations bring these feelings up.",
			"Protect time for sleep, movement and people you trust.",
		},
	},
	{
		upTo:    0.75,
		label:   "Moderate",
		summary: "Your answers point to a moderate level on this dimension. It is affecting parts of daily life.",
		suggestions: []string{
			"Write down what weighs on you most this week.",
			"Try a short daily relaxation or breathing exercise.",
			"Consider talking with someone you trust about how you feel.",
		},
	},
	{
		upTo:    1,
		label:   "High",
		summary: "Your answers point to a high level on this dimension. Extra support could help.",
		suggestions: []string{
			"Reach out to a counsellor or doctor to talk it through.",
			"Lean on friends and family rather than carrying this alone.",
			"Keep daily routines simple and be gentle with yourself.",
		},
	},
}

var references = map[string][]string{
	"mental-health": {
		"Feeling Good, David D. Burns",
		"Mindfulness for beginners, Jon Kabat-Zinn",
	},
	"stress-assessment": {
		"Why Zebras Don't Get Ulcers, Robert M. Sapolsky",
		"Guided progressive muscle relaxation",
	},
	"emotional-intelligence": {
		"Emotional Intelligence, Daniel Goleman",
	},
	"relationship": {
		"Hold Me Tight, Sue Johnson",
	},
	"personality": {
		"Quiet, Susan Cain",
	},
}

var defaultReferences = []string{
	"Local counselling services and support lines",
}

// Assess maps score/maxScore onto a result band. A zero maxScore is treated
// as the lowest band.
func Assess(testTypeID string, score, maxScore int) Assessment {
	ratio := 0.0
	if maxScore > 0 {
		ratio = float64(score) / float64(maxScore)
	}

	b := bands[len(bands)-1]
	for _, candidate := range bands {
		if ratio <= candidate.upTo {
			b = candidate
			break
		}
	}

	refs, ok := references[testTypeID]
	if !ok {
		refs = defaultReferences
	}

	return Assessment{
		Label:       b.label,
		Summary:     b.summary,
		Suggestions: strings.Join(b.suggestions, "\n"),
		References:  strings.Join(refs, "\n"),
	}
}
