package question

// DefaultSeed is the starter set inserted into an empty questions table.
var DefaultSeed = []Question{
	{
		Level:        1,
		Question:     "Was ist 'Bilanzierung' im engeren Sinne?",
		AnswerA:      "Die Betrachtung von Bilanz, GuV und Anhang",
		AnswerB:      "Nur die Betrachtung der Bilanzpositionen",
		AnswerC:      "Nur die Betrachtung der GuV",
		AnswerD:      "Nur der Anhang",
		CorrectIndex: 1,
	},
	{
		Level:        1,
		Question:     "Welche Bestandteile hat der Jahresabschluss einer typischen Kapitalgesellschaft?",
		AnswerA:      "Nur Bilanz",
		AnswerB:      "Bilanz und Anhang",
		AnswerC:      "Bilanz, GuV und ggf. Anhang",
		AnswerD:      "Nur GuV",
		CorrectIndex: 2,
	},
	{
		Level:        2,
		Question:     "Was bedeutet 'Bilanzierung dem Grunde nach'?",
		AnswerA:      "Bewertungshöhe eines Vermögensgegenstandes",
		AnswerB:      "Ob etwas überhaupt in die Bilanz gehört",
		AnswerC:      "Nur die zeitliche Erfassung von Aufwendungen",
		AnswerD:      "Die Methode der Abschreibung",
		CorrectIndex: 1,
	},
}
