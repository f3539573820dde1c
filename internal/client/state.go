package client

type View string

const (
	ViewHome        View = "Home"
	ViewQuiz        View = "Quiz"
	ViewFlashcards  View = "Flashcards"
	ViewLeaderboard View = "Leaderboard"
	ViewShop        View = "Shop"
)

var Views = []View{ViewHome, ViewQuiz, ViewFlashcards, ViewLeaderboard, ViewShop}

const (
	GuestName         = "Gast"
	DefaultPlayerName = "Player"
	xpPerLevel        = 100
)

// Profile is the locally persisted player record.
type Profile struct {
	Name       string `json:"name"`
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
	Coins      int    `json:"coins"`
	Hearts     int    `json:"hearts"`
	Streak     int    `json:"streak"`
	BestStreak int    `json:"bestStreak"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:   GuestName,
		Level:  1,
		Hearts: 3,
	}
}

// LevelFor maps total xp to a level, starting at 1.
func LevelFor(xp int) int {
	return xp/xpPerLevel + 1
}

type Question struct {
	ID           int      `json:"id"`
	Level        int      `json:"level"`
	Q            string   `json:"q"`
	Answers      []string `json:"answers"`
	CorrectIndex int      `json:"correctIndex"`
}

// CorrectAnswer returns the text of the right answer.
func (q Question) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Answers) {
		return ""
	}
	return q.Answers[q.CorrectIndex]
}

// State is everything the front-end renders from.
type State struct {
	User                 Profile
	CurrentView          View
	CurrentLevel         int
	CurrentQuestionIndex int
	DoubleXP             bool
	CurrentQuestions     []Question

	answered      bool
	levelFinished bool
	cardIndex     int
	cardFlipped   bool
}

func newState(user Profile) State {
	return State{
		User:        user,
		CurrentView: ViewHome,
	}
}
