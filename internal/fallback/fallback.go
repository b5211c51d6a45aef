// Package fallback answers utterances the local rules could not classify by asking an
// external text-generation service. Every failure is reported as ErrUnavailable so the
// caller can substitute its canned reply.
package fallback

import (
	"context"
	"errors"
)

// SystemPrompt frames every utterance sent to the generative service
const SystemPrompt = "You are a shopping assistant. Reply simply: "

var ErrUnavailable = errors.New("fallback unavailable")

// Delegate produces a free-form reply for an unclassified utterance
type Delegate interface {
	Reply(ctx context.Context, utterance string) (string, error)
}

// Unavailable is the Delegate used when no generative service is configured.
// It never touches the network.
type Unavailable struct{}

func (Unavailable) Reply(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

func (Unavailable) Status() string {
	return "unavailable"
}

// Status describes a delegate chain for health reporting
func Status(d Delegate) string {
	if s, ok := d.(interface{ Status() string }); ok {
		return s.Status()
	}
	return "unknown"
}

// Prompt builds the text sent to the generative service
func Prompt(utterance string) string {
	return SystemPrompt + utterance
}
