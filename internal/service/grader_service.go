package service

import (
	"github.com/lshigami/Margays/internal/model"
)

// GraderService decides the verdict for a single (question, answer) pair.
// It is a pure function over its inputs: no store access, no side effects,
// so it can be unit tested without any infrastructure.
type GraderService interface {
	Grade(question *model.Question, answer *model.Answer) string
}

type graderService struct{}

func NewGraderService() GraderService {
	return &graderService{}
}

// Grade returns CORRECT, INCORRECT or UNANSWERED. An answer with no selected
// option, no option set and no numeric value is UNANSWERED, which is
// distinct from INCORRECT and must never be scored as wrong.
func (g *graderService) Grade(question *model.Question, answer *model.Answer) string {
	if answer == nil || answer.Unanswered() {
		return model.CorrectnessUnanswered
	}

	switch question.Type {
	case model.QuestionTypeSingleChoice, model.QuestionTypeTrueFalse:
		if answer.SelectedOptionID == nil {
			return model.CorrectnessIncorrect
		}
		correct := question.CorrectOptionIDs()
		if _, ok := correct[*answer.SelectedOptionID]; ok {
			return model.CorrectnessCorrect
		}
		return model.CorrectnessIncorrect

	case model.QuestionTypeMultipleChoice:
		selected := answer.SelectedSet()
		if answer.SelectedOptionID != nil {
			selected[*answer.SelectedOptionID] = struct{}{}
		}
		if setsEqual(selected, question.CorrectOptionIDs()) {
			return model.CorrectnessCorrect
		}
		return model.CorrectnessIncorrect

	case model.QuestionTypeNumeric:
		if answer.NumericValue != nil && question.NumericAnswer != nil &&
			*answer.NumericValue == *question.NumericAnswer {
			return model.CorrectnessCorrect
		}
		return model.CorrectnessIncorrect
	}

	// Unknown question type: any submission is wrong rather than silently correct.
	return model.CorrectnessIncorrect
}

// setsEqual implements all-or-nothing multiple choice: same cardinality and
// same membership, no partial credit.
func setsEqual(a, b map[uint]struct{}) bool {
	if len(a) != len(b) || len(b) == 0 {
		return false
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			return false
		}
	}
	return true
}
