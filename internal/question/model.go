package question

type Question struct {
	ID           uint   `gorm:"primaryKey"`
	Level        int    `gorm:"not null;index"`
	Question     string `gorm:"not null"`
	AnswerA      string `gorm:"column:answer_a;not null"`
	AnswerB      string `gorm:"column:answer_b;not null"`
	AnswerC      string `gorm:"column:answer_c;not null"`
	AnswerD      string `gorm:"column:answer_d;not null"`
	CorrectIndex int    `gorm:"not null"`
}

// QuestionResponse is the wire shape served to clients.
type QuestionResponse struct {
	ID           uint      `json:"id"`
	Level        int       `json:"level"`
	Q            string    `json:"q"`
	Answers      [4]string `json:"answers"`
	CorrectIndex int       `json:"correctIndex"`
}

func (q Question) Response() QuestionResponse {
	return QuestionResponse{
		ID:           q.ID,
		Level:        q.Level,
		Q:            q.Question,
		Answers:      [4]string{q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD},
		CorrectIndex: q.CorrectIndex,
	}
}
