package domain

// AnswerType describes how a question's answer is represented.
type AnswerType string

const (
	AnswerBoolean     AnswerType = "boolean"
	AnswerInteger     AnswerType = "integer"
	AnswerDate        AnswerType = "date"
	AnswerString      AnswerType = "string"
	AnswerText        AnswerType = "text"
	AnswerMultichoice AnswerType = "multichoice"
)

// Form is a named, ordered list of questions attached to an edition's
// signup flow.
type Form struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Question is a generic signup question.
type Question struct {
	ID      uint       `json:"id"`
	Text    string     `json:"text"`
	Comment string     `json:"comment,omitempty"`
	Type    AnswerType `json:"type"`
	Order   int        `json:"order"`

	// AlwaysRequired questions must be filled to save the application,
	// FinallyRequired ones only to validate it.
	AlwaysRequired  bool `json:"always_required"`
	FinallyRequired bool `json:"finally_required"`
}

// Answer is an applicant's response to one question, unique per
// (applicant, question).
type Answer struct {
	ID          uint     `json:"id"`
	ApplicantID uint     `json:"applicant_id"`
	QuestionID  uint     `json:"question_id"`
	Question    Question `json:"question,omitempty"`
	Response    string   `json:"response"`
}

// IsValid reports whether the answer satisfies the question's validation
// requirement. A finally-required question must have a non-empty response.
func (a *Answer) IsValid() bool {
	if !a.Question.FinallyRequired {
		return true
	}

	return a.Response != "" && a.Response != "false"
}
