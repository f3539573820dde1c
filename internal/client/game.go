package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	NoQuestionsMessage = "Für dieses Level sind noch keine Fragen hinterlegt."
	LevelDoneMessage   = "Level beendet! Du kannst ein neues Level wählen."
	NoCardsMessage     = "Noch keine Karten angelegt."

	correctXP       = 10
	doubleCorrectXP = 20
	flashcardXP     = 5
	levelDoneCoins  = 5
	flashcardLevel  = 1
)

var (
	ErrNoQuestions     = errors.New("no questions for level")
	ErrNoActiveQuiz    = errors.New("no active question")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrInvalidAnswer   = errors.New("answer index out of range")
)

type AnswerResult struct {
	Correct      bool
	CorrectIndex int
	XPGained     int
	LeveledUp    bool
}

// BoardEntry is one row of the local leaderboard view.
type BoardEntry struct {
	Name   string
	XP     int
	Streak int
	IsMe   bool
}

var examplePlayers = []BoardEntry{
	{Name: "Alice", XP: 420, Streak: 4},
	{Name: "Bob", XP: 260, Streak: 2},
	{Name: "Cara", XP: 180, Streak: 3},
}

// Game drives the views and owns the player state. It is not safe for
// concurrent use.
type Game struct {
	state     State
	store     Store
	bank      Bank
	onChange  []func(Profile)
	onLevelUp func(level int)
}

// NewGame restores the stored profile. A corrupt blob is reported but the
// game still starts from the defaults.
func NewGame(store Store, bank Bank) (*Game, error) {
	profile, err := store.Load()
	g := &Game{
		state: newState(profile),
		store: store,
		bank:  bank,
	}
	return g, err
}

func (g *Game) OnChange(fn func(Profile)) {
	g.onChange = append(g.onChange, fn)
}

func (g *Game) OnLevelUp(fn func(level int)) {
	g.onLevelUp = fn
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Profile() Profile {
	return g.state.User
}

func (g *Game) SetDoubleXP(on bool) {
	g.state.DoubleXP = on
}

// SwitchView only changes which view is shown.
func (g *Game) SwitchView(v View) {
	g.state.CurrentView = v
}

// XPProgress is the fill of the header bar in [0,1].
func (g *Game) XPProgress() float64 {
	p := float64(g.state.User.XP%xpPerLevel) / xpPerLevel
	if p > 1 {
		return 1
	}
	return p
}

// StartLevel loads the level and switches to the quiz. An empty level leaves
// the view unchanged and returns ErrNoQuestions.
func (g *Game) StartLevel(ctx context.Context, level int) error {
	questions, err := g.bank.Questions(ctx, level)
	if err != nil {
		return fmt.Errorf("error loading level %d: %w", level, err)
	}

	g.state.CurrentLevel = level
	g.state.CurrentQuestionIndex = 0
	g.state.CurrentQuestions = questions
	g.state.answered = false
	g.state.levelFinished = false
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	g.SwitchView(ViewQuiz)
	return nil
}

func (g *Game) CurrentQuestion() (Question, bool) {
	idx := g.state.CurrentQuestionIndex
	if idx < 0 || idx >= len(g.state.CurrentQuestions) {
		return Question{}, false
	}
	return g.state.CurrentQuestions[idx], true
}

// LevelFinished reports whether the quiz ran past its last question.
func (g *Game) LevelFinished() bool {
	return g.state.levelFinished
}

// Answer scores the current question. Only the first answer per question counts.
func (g *Game) Answer(i int) (AnswerResult, error) {
	q, ok := g.CurrentQuestion()
	if !ok {
		return AnswerResult{}, ErrNoActiveQuiz
	}
	if g.state.answered {
		return AnswerResult{}, ErrAlreadyAnswered
	}
	if i < 0 || i >= len(q.Answers) {
		return AnswerResult{}, ErrInvalidAnswer
	}
	g.state.answered = true

	res := AnswerResult{Correct: i == q.CorrectIndex, CorrectIndex: q.CorrectIndex}
	u := &g.state.User
	if res.Correct {
		res.XPGained = correctXP
		if g.state.DoubleXP {
			res.XPGained = doubleCorrectXP
		}
		u.XP += res.XPGained
		u.Streak++
		u.BestStreak = max(u.BestStreak, u.Streak)
		res.LeveledUp = g.recomputeLevel()
	} else {
		u.Hearts = max(0, u.Hearts-1)
		u.Streak = 0
	}

	return res, g.persist()
}

// Advance moves to the next question. Running past the end finishes the
// level and pays the completion coins once.
func (g *Game) Advance() (bool, error) {
	if g.state.levelFinished {
		return true, nil
	}
	g.state.CurrentQuestionIndex++
	g.state.answered = false
	if g.state.CurrentQuestionIndex < len(g.state.CurrentQuestions) {
		return false, nil
	}

	g.state.levelFinished = true
	g.state.User.Coins += levelDoneCoins
	return true, g.persist()
}

// Card returns the current flashcard from the level 1 deck.
func (g *Game) Card(ctx context.Context) (Question, bool, error) {
	deck, err := g.bank.Questions(ctx, flashcardLevel)
	if err != nil {
		return Question{}, false, err
	}
	if len(deck) == 0 {
		return Question{}, false, nil
	}
	return deck[g.state.cardIndex%len(deck)], true, nil
}

func (g *Game) Flip() bool {
	g.state.cardFlipped = !g.state.cardFlipped
	return g.state.cardFlipped
}

func (g *Game) CardFlipped() bool {
	return g.state.cardFlipped
}

// IKnow pays the flashcard xp and moves to the next card face down.
func (g *Game) IKnow() (bool, error) {
	g.state.User.XP += flashcardXP
	leveledUp := g.recomputeLevel()
	g.state.cardIndex++
	g.state.cardFlipped = false
	return leveledUp, g.persist()
}

// Leaderboard merges the example players with the local player, by xp.
func (g *Game) Leaderboard() []BoardEntry {
	name := g.state.User.Name
	if name == "" {
		name = "Du"
	}
	all := make([]BoardEntry, 0, len(examplePlayers)+1)
	all = append(all, examplePlayers...)
	all = append(all, BoardEntry{
		Name:   name,
		XP:     g.state.User.XP,
		Streak: g.state.User.Streak,
		IsMe:   true,
	})
	sort.SliceStable(all, func(i, j int) bool { return all[i].XP > all[j].XP })
	return all
}

// LoginLocal names the player without a server account.
func (g *Game) LoginLocal(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	g.state.User.Name = name
	return g.persist()
}

// SaveProfile renames the player; a blank name keeps the current one.
func (g *Game) SaveProfile(name string) error {
	if name = strings.TrimSpace(name); name != "" {
		g.state.User.Name = name
	}
	return g.persist()
}

// Adopt replaces the local profile with p without notifying change listeners.
func (g *Game) Adopt(p Profile) error {
	g.state.User = p
	return g.store.Save(p)
}

func (g *Game) recomputeLevel() bool {
	next := LevelFor(g.state.User.XP)
	if next <= g.state.User.Level {
		return false
	}
	g.state.User.Level = next
	if g.onLevelUp != nil {
		g.onLevelUp(next)
	}
	return true
}

func (g *Game) persist() error {
	if err := g.store.Save(g.state.User); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	for _, fn := range g.onChange {
		fn(g.state.User)
	}
	return nil
}
