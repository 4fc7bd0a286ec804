package service

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
)

func buildCatalogQuiz(questionCount, examCount int, randomizeQuestions, randomizeChoices bool) *model.Quiz {
	quiz := &model.Quiz{
		Title:              "测试测验",
		ExamQuestionCount:  examCount,
		RandomizeQuestions: randomizeQuestions,
		RandomizeChoices:   randomizeChoices,
	}
	choiceID := uint(1)
	for i := 0; i < questionCount; i++ {
		q := model.Question{Text: "question"}
		q.ID = uint(i + 1)
		for j := 0; j < 4; j++ {
			c := model.Choice{Text: "choice", IsCorrect: j == 0}
			c.ID = choiceID
			choiceID++
			q.Choices = append(q.Choices, c)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

func TestMaterializeExamSubsetSize(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		examCount int
		want      int
	}{
		{"subset", 20, 10, 10},
		{"count exceeds catalog", 5, 10, 5},
		{"zero means all", 8, 0, 8},
		{"exact", 6, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := buildCatalogQuiz(tt.questions, tt.examCount, true, true)
			snapshot, err := MaterializeExam(quiz, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("MaterializeExam() error = %v", err)
			}
			if len(snapshot) != tt.want {
				t.Errorf("snapshot has %d questions, want %d", len(snapshot), tt.want)
			}

			seen := make(map[uint]bool)
			for _, q := range snapshot {
				if seen[q.QuestionID] {
					t.Errorf("question %d appears more than once", q.QuestionID)
				}
				seen[q.QuestionID] = true
			}
		})
	}
}

func TestMaterializeExamEmptyQuiz(t *testing.T) {
	quiz := &model.Quiz{Title: "empty", ExamQuestionCount: 10}
	if _, err := MaterializeExam(quiz, rand.New(rand.NewSource(1))); !errors.Is(err, util.ErrEmptyQuiz) {
		t.Errorf("MaterializeExam() error = %v, want ErrEmptyQuiz", err)
	}
}

func TestMaterializeExamCatalogOrder(t *testing.T) {
	quiz := buildCatalogQuiz(10, 4, false, false)
	snapshot, err := MaterializeExam(quiz, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("MaterializeExam() error = %v", err)
	}

	choiceOrder := make(map[uint][]uint, len(quiz.Questions))
	for _, q := range quiz.Questions {
		for _, c := range q.Choices {
			choiceOrder[q.ID] = append(choiceOrder[q.ID], c.ID)
		}
	}

	// 选中的题目按目录顺序排列，每题选项也保持目录顺序
	for i, q := range snapshot {
		if i > 0 && q.QuestionID <= snapshot[i-1].QuestionID {
			t.Errorf("questions out of catalog order: %d after %d", q.QuestionID, snapshot[i-1].QuestionID)
		}
		for j, c := range q.Choices {
			if c.ChoiceID != choiceOrder[q.QuestionID][j] {
				t.Errorf("question %d choice %d out of catalog order", q.QuestionID, j)
			}
		}
	}
}

func TestMaterializeExamSamplesWholeCatalog(t *testing.T) {
	// 题目乱序关闭也不改变抽样：目录尾部的题目同样会被抽到
	quiz := buildCatalogQuiz(10, 4, false, false)

	seen := make(map[uint]bool)
	for seed := int64(0); seed < 200; seed++ {
		snapshot, err := MaterializeExam(quiz, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("MaterializeExam() error = %v", err)
		}
		for _, q := range snapshot {
			seen[q.QuestionID] = true
		}
	}

	for _, q := range quiz.Questions {
		if !seen[q.ID] {
			t.Errorf("question %d was never selected across 200 seeds", q.ID)
		}
	}
}

func TestMaterializeExamDeterministic(t *testing.T) {
	quiz := buildCatalogQuiz(15, 10, true, true)

	first, err := MaterializeExam(quiz, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("MaterializeExam() error = %v", err)
	}
	second, err := MaterializeExam(quiz, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("MaterializeExam() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different exams")
	}
}

func TestMaterializeExamChoicesBelongToQuestion(t *testing.T) {
	quiz := buildCatalogQuiz(10, 10, true, true)

	owner := make(map[uint]uint)
	for _, q := range quiz.Questions {
		for _, c := range q.Choices {
			owner[c.ID] = q.ID
		}
	}

	snapshot, err := MaterializeExam(quiz, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("MaterializeExam() error = %v", err)
	}

	for _, q := range snapshot {
		if len(q.Choices) != 4 {
			t.Errorf("question %d has %d choices, want 4", q.QuestionID, len(q.Choices))
		}
		for _, c := range q.Choices {
			if owner[c.ChoiceID] != q.QuestionID {
				t.Errorf("choice %d does not belong to question %d", c.ChoiceID, q.QuestionID)
			}
		}
	}
}
