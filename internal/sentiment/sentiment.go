package sentiment

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/assets"
)

// Sentiment is the overall tone of a piece of text.
type Sentiment int

const (
	Neutral Sentiment = iota
	Positive
	Negative
	Mixed
)

func (s Sentiment) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Mixed:
		return "mixed"
	default:
		return "neutral"
	}
}

// Classifier detects the sentiment of user text. Implementations may call
// remote services and fail; callers must tolerate that.
type Classifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

const classifyTimeout = 3 * time.Second

// Flavorer prefixes a reprompt with a canned line matching the user's mood.
// A nil classifier, a failure or a neutral result leaves the reprompt as is.
type Flavorer struct {
	classifier Classifier
	log        *zap.Logger
	replies    map[Sentiment][]string
	pick       func(n int) int
}

// NewFlavorer builds a Flavorer with the embedded canned replies.
// classifier may be nil.
func NewFlavorer(classifier Classifier, log *zap.Logger) *Flavorer {
	return &Flavorer{
		classifier: classifier,
		log:        log,
		replies: map[Sentiment][]string{
			Positive: assets.Replies("positive"),
			Negative: assets.Replies("negative"),
			Mixed:    assets.Replies("mixed"),
		},
		pick: rand.IntN,
	}
}

// Flavor returns base, possibly prefixed with a reply matching text's sentiment.
func (f *Flavorer) Flavor(ctx context.Context, text, base string) string {
	if f == nil || f.classifier == nil {
		return base
	}
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	s, err := f.classifier.Classify(ctx, text)
	if err != nil {
		f.log.Warn("sentiment classify failed", zap.Error(err))
		return base
	}
	lines := f.replies[s]
	if len(lines) == 0 {
		return base
	}
	return lines[f.pick(len(lines))] + " " + base
}
