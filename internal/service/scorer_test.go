package service

import (
	"reflect"
	"testing"

	"quizhub_backend/internal/model"
)

// scoringCatalog 3 道题，正确选项依次为 11、21、31
func scoringCatalog() []model.Question {
	questions := make([]model.Question, 0, 3)
	for i := 0; i < 3; i++ {
		q := model.Question{Text: "q"}
		q.ID = uint(i + 1)
		for j := 0; j < 4; j++ {
			c := model.Choice{Text: "c", IsCorrect: j == 0}
			c.ID = uint((i+1)*10 + j + 1)
			q.Choices = append(q.Choices, c)
		}
		questions = append(questions, q)
	}
	return questions
}

func TestScoreAttempt(t *testing.T) {
	questions := scoringCatalog()

	tests := []struct {
		name    string
		answers []model.AnswerItem
		want    int
	}{
		{
			"all correct",
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}, {QuestionID: 2, ChoiceID: 21}, {QuestionID: 3, ChoiceID: 31}},
			3,
		},
		{
			"partial",
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}, {QuestionID: 2, ChoiceID: 22}},
			1,
		},
		{"no answers", nil, 0},
		{
			"unknown question id scores zero",
			[]model.AnswerItem{{QuestionID: 99, ChoiceID: 11}, {QuestionID: 3, ChoiceID: 31}},
			1,
		},
		{
			"choice from another question scores zero",
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 21}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreAttempt(tt.answers, questions); got != tt.want {
				t.Errorf("ScoreAttempt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreAttemptQuestionDeletedFromCatalog(t *testing.T) {
	questions := scoringCatalog()
	// 题目2已从题库删除，作答该题不得分
	remaining := []model.Question{questions[0], questions[2]}

	answers := []model.AnswerItem{
		{QuestionID: 1, ChoiceID: 11},
		{QuestionID: 2, ChoiceID: 21},
		{QuestionID: 3, ChoiceID: 31},
	}
	if got := ScoreAttempt(answers, remaining); got != 2 {
		t.Errorf("ScoreAttempt() = %d, want 2", got)
	}
}

func TestMergeAnswers(t *testing.T) {
	tests := []struct {
		name     string
		existing []model.AnswerItem
		incoming []model.AnswerItem
		want     []model.AnswerItem
	}{
		{
			"new answers appended",
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}},
			[]model.AnswerItem{{QuestionID: 2, ChoiceID: 21}},
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}, {QuestionID: 2, ChoiceID: 21}},
		},
		{
			"same question overwritten in place",
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}, {QuestionID: 2, ChoiceID: 21}},
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 12}},
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 12}, {QuestionID: 2, ChoiceID: 21}},
		},
		{
			"empty incoming keeps existing",
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}},
			nil,
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}},
		},
		{
			"duplicate within incoming keeps last",
			nil,
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 11}, {QuestionID: 1, ChoiceID: 13}},
			[]model.AnswerItem{{QuestionID: 1, ChoiceID: 13}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAnswers(tt.existing, tt.incoming)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeAnswers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeAnswersIdempotent(t *testing.T) {
	existing := []model.AnswerItem{{QuestionID: 1, ChoiceID: 11}, {QuestionID: 2, ChoiceID: 21}}
	incoming := []model.AnswerItem{{QuestionID: 2, ChoiceID: 22}}

	once := MergeAnswers(existing, incoming)
	twice := MergeAnswers(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("repeated merge changed result: %v vs %v", once, twice)
	}
}
