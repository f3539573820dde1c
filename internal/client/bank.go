package client

import (
	"context"
)

// Bank supplies the questions of a level.
type Bank interface {
	Questions(ctx context.Context, level int) ([]Question, error)
}

// StaticBank is the built-in question set used offline.
type StaticBank map[int][]Question

func (b StaticBank) Questions(_ context.Context, level int) ([]Question, error) {
	return b[level], nil
}

var DefaultBank = StaticBank{
	1: {
		{
			ID:    1,
			Level: 1,
			Q:     "Was ist 'Bilanzierung' im engeren Sinne?",
			Answers: []string{
				"Die Betrachtung von Bilanz, GuV und Anhang",
				"Nur die Betrachtung der Bilanzpositionen",
				"Nur die Betrachtung der GuV",
				"Nur der Anhang",
			},
			CorrectIndex: 1,
		},
		{
			ID:    2,
			Level: 1,
			Q:     "Welche Bestandteile hat der Jahresabschluss einer typischen Kapitalgesellschaft?",
			Answers: []string{
				"Nur Bilanz",
				"Bilanz und Anhang",
				"Bilanz, GuV und ggf. Anhang",
				"Nur GuV",
			},
			CorrectIndex: 2,
		},
	},
	2: {
		{
			ID:    3,
			Level: 2,
			Q:     "Was bedeutet 'Bilanzierung dem Grunde nach'?",
			Answers: []string{
				"Bewertungshöhe eines Vermögensgegenstandes",
				"Ob etwas überhaupt in die Bilanz gehört",
				"Nur die zeitliche Erfassung von Aufwendungen",
				"Die Methode der Abschreibung",
			},
			CorrectIndex: 1,
		},
	},
}

// RemoteBank loads questions from the server once a session exists and
// uses fallback before that.
type RemoteBank struct {
	api      *APIClient
	fallback Bank
}

func NewRemoteBank(api *APIClient, fallback Bank) *RemoteBank {
	return &RemoteBank{api: api, fallback: fallback}
}

func (b *RemoteBank) Questions(ctx context.Context, level int) ([]Question, error) {
	if b.api.Token() == "" {
		return b.fallback.Questions(ctx, level)
	}
	return b.api.Questions(ctx, level)
}
