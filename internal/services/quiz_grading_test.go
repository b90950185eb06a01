package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/types"
)

func makeQuestions(n int) []*types.QuizQuestion {
	questions := make([]*types.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, &types.QuizQuestion{
			ID:              uuid.New(),
			CorrectOptionID: "opt-a",
			Order:           i + 1,
		})
	}
	return questions
}

func TestGradeAttemptScoresAgainstFullQuestionCount(t *testing.T) {
	questions := makeQuestions(5)

	// three answered correctly, two never answered
	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedOptionID: "opt-a"},
		{QuestionID: questions[1].ID, SelectedOptionID: "opt-a"},
		{QuestionID: questions[2].ID, SelectedOptionID: "opt-a"},
	}

	graded, correct, scorePct := gradeAttempt(questions, answers)
	if correct != 3 {
		t.Fatalf("correct = %d, want 3", correct)
	}
	if scorePct != 60 {
		t.Fatalf("score = %d, want 60", scorePct)
	}
	if len(graded) != 3 {
		t.Fatalf("graded answers = %d, want 3", len(graded))
	}
}

func TestGradeAttemptUnknownQuestionIsIncorrect(t *testing.T) {
	questions := makeQuestions(2)
	answers := []SubmittedAnswer{
		{QuestionID: uuid.New(), SelectedOptionID: "opt-a"},
		{QuestionID: questions[0].ID, SelectedOptionID: "opt-b"},
	}

	graded, correct, scorePct := gradeAttempt(questions, answers)
	if correct != 0 {
		t.Fatalf("correct = %d, want 0", correct)
	}
	if scorePct != 0 {
		t.Fatalf("score = %d, want 0", scorePct)
	}
	for i, g := range graded {
		if g.IsCorrect {
			t.Fatalf("answer %d marked correct", i)
		}
	}
}

func TestGradeAttemptRounding(t *testing.T) {
	questions := makeQuestions(3)
	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedOptionID: "opt-a"},
	}
	_, _, scorePct := gradeAttempt(questions, answers)
	// 1/3 rounds to 33
	if scorePct != 33 {
		t.Fatalf("score = %d, want 33", scorePct)
	}

	answers = append(answers, SubmittedAnswer{QuestionID: questions[1].ID, SelectedOptionID: "opt-a"})
	_, _, scorePct = gradeAttempt(questions, answers)
	// 2/3 rounds to 67
	if scorePct != 67 {
		t.Fatalf("score = %d, want 67", scorePct)
	}
}

func TestGradeAttemptNoQuestions(t *testing.T) {
	_, correct, scorePct := gradeAttempt(nil, []SubmittedAnswer{
		{QuestionID: uuid.New(), SelectedOptionID: "opt-a"},
	})
	if correct != 0 || scorePct != 0 {
		t.Fatalf("expected zero score with no questions, got correct=%d score=%d", correct, scorePct)
	}
}
