package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
)

func newTestQuizService(t *testing.T) *QuizService {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{}
	cfg.Quiz.RequiredChoiceCount = 4
	return NewQuizService(repository.NewQuizRepository(db), nil, cfg)
}

func validQuizInput(questionCount int) *QuizInput {
	input := &QuizInput{Title: "新测验", Description: "描述"}
	for i := 0; i < questionCount; i++ {
		q := QuestionInput{Text: fmt.Sprintf("第%d题", i+1)}
		for j := 0; j < 4; j++ {
			q.Choices = append(q.Choices, ChoiceInput{
				Text:      fmt.Sprintf("选项%d", j+1),
				IsCorrect: j == 0,
			})
		}
		input.Questions = append(input.Questions, q)
	}
	return input
}

func TestCreateQuizDefaults(t *testing.T) {
	svc := newTestQuizService(t)

	quiz, err := svc.CreateQuiz(context.Background(), validQuizInput(3))
	if err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}

	if quiz.ExamQuestionCount != util.DefaultExamQuestionCount {
		t.Errorf("ExamQuestionCount = %d, want default %d", quiz.ExamQuestionCount, util.DefaultExamQuestionCount)
	}
	if quiz.QuestionsPerPage != util.DefaultQuestionsPerPage {
		t.Errorf("QuestionsPerPage = %d, want default %d", quiz.QuestionsPerPage, util.DefaultQuestionsPerPage)
	}
	if !quiz.RandomizeQuestions || !quiz.RandomizeChoices {
		t.Error("randomize flags should default to true")
	}

	stored, err := svc.GetQuizWithQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("GetQuizWithQuestions() error = %v", err)
	}
	if len(stored.Questions) != 3 {
		t.Errorf("stored %d questions, want 3", len(stored.Questions))
	}
}

func TestCreateQuizValidation(t *testing.T) {
	svc := newTestQuizService(t)

	tests := []struct {
		name    string
		mutate  func(*QuizInput)
		wantErr error
	}{
		{
			"too few choices",
			func(in *QuizInput) { in.Questions[0].Choices = in.Questions[0].Choices[:3] },
			util.ErrChoiceCount,
		},
		{
			"too many choices",
			func(in *QuizInput) {
				in.Questions[0].Choices = append(in.Questions[0].Choices, ChoiceInput{Text: "多余选项"})
			},
			util.ErrChoiceCount,
		},
		{
			"no correct choice",
			func(in *QuizInput) { in.Questions[0].Choices[0].IsCorrect = false },
			util.ErrCorrectChoiceCount,
		},
		{
			"two correct choices",
			func(in *QuizInput) { in.Questions[0].Choices[1].IsCorrect = true },
			util.ErrCorrectChoiceCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validQuizInput(2)
			tt.mutate(input)
			_, err := svc.CreateQuiz(context.Background(), input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateQuiz() error = %v, want %v", err, tt.wantErr)
			}
			if !util.IsValidationErr(err) {
				t.Errorf("IsValidationErr() = false for %v", err)
			}
		})
	}
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	svc := newTestQuizService(t)

	quiz, err := svc.CreateQuiz(context.Background(), validQuizInput(3))
	if err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}

	updated := validQuizInput(5)
	updated.Title = "改版测验"
	falseVal := false
	updated.RandomizeQuestions = &falseVal

	result, err := svc.UpdateQuiz(context.Background(), quiz.ID, updated)
	if err != nil {
		t.Fatalf("UpdateQuiz() error = %v", err)
	}
	if result.Title != "改版测验" {
		t.Errorf("Title = %q, want %q", result.Title, "改版测验")
	}
	if result.RandomizeQuestions {
		t.Error("RandomizeQuestions should be false after update")
	}
	if len(result.Questions) != 5 {
		t.Errorf("quiz has %d questions after update, want 5", len(result.Questions))
	}
}

func TestUpdateQuizNotFound(t *testing.T) {
	svc := newTestQuizService(t)

	if _, err := svc.UpdateQuiz(context.Background(), 999, validQuizInput(1)); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("UpdateQuiz() error = %v, want ErrQuizNotFound", err)
	}
}

func TestDeleteQuiz(t *testing.T) {
	svc := newTestQuizService(t)

	quiz, err := svc.CreateQuiz(context.Background(), validQuizInput(2))
	if err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}

	if err := svc.DeleteQuiz(context.Background(), quiz.ID); err != nil {
		t.Fatalf("DeleteQuiz() error = %v", err)
	}
	if _, err := svc.GetQuiz(quiz.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("GetQuiz() after delete error = %v, want ErrQuizNotFound", err)
	}

	var questionCount int64
	svc.quizRepo.DB.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount)
	if questionCount != 0 {
		t.Errorf("%d questions left after quiz delete", questionCount)
	}
}

func TestListQuizzesPagination(t *testing.T) {
	svc := newTestQuizService(t)

	for i := 0; i < 5; i++ {
		input := validQuizInput(1)
		input.Title = fmt.Sprintf("测验%d", i+1)
		if _, err := svc.CreateQuiz(context.Background(), input); err != nil {
			t.Fatalf("CreateQuiz() error = %v", err)
		}
	}

	page, total, err := svc.ListQuizzes(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("ListQuizzes() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page has %d quizzes, want 2", len(page))
	}
	if page[0].Title != "测验3" {
		t.Errorf("page starts at %q, want 测验3", page[0].Title)
	}
}

func TestPreviewExam(t *testing.T) {
	svc := newTestQuizService(t)

	input := validQuizInput(8)
	input.ExamQuestionCount = 4
	quiz, err := svc.CreateQuiz(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}

	preview, err := svc.PreviewExam(quiz.ID)
	if err != nil {
		t.Fatalf("PreviewExam() error = %v", err)
	}
	if len(preview) != 4 {
		t.Errorf("preview has %d questions, want 4", len(preview))
	}

	// 预览不产生答卷
	var count int64
	svc.quizRepo.DB.Model(&model.QuizAttempt{}).Count(&count)
	if count != 0 {
		t.Errorf("preview created %d attempts", count)
	}
}
