package models

// Answer is the closed set of answer shapes a question can carry: Single, Choice
// or None. Use MatchAnswer to branch on it so that adding a variant breaks every
// call site at compile time.
type Answer interface {
	isAnswer()
}

// Single is a free-text or formatted scalar answer.
type Single struct {
	Text string
}

// Choice holds the chosen answer options in source order.
type Choice struct {
	Options []SelectedOption
}

// None marks a question without an inline answer.
type None struct{}

func (Single) isAnswer() {}
func (Choice) isAnswer() {}
func (None) isAnswer()   {}

// SelectedOption is one chosen answer option.
type SelectedOption struct {
	Label      string
	Annotation *AlertText
}

// MatchAnswer dispatches on the answer variant. A nil answer is treated as None.
func MatchAnswer[T any](a Answer, single func(Single) T, choice func(Choice) T, none func() T) T {
	switch v := a.(type) {
	case Single:
		return single(v)
	case Choice:
		return choice(v)
	default:
		return none()
	}
}

// Texts returns the plain answer texts: the single text, or one label per option.
func Texts(a Answer) []string {
	return MatchAnswer(a,
		func(s Single) []string { return []string{s.Text} },
		func(c Choice) []string {
			out := make([]string, 0, len(c.Options))
			for _, o := range c.Options {
				out = append(out, o.Label)
			}
			return out
		},
		func() []string { return nil },
	)
}
