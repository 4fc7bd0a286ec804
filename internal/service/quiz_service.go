package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const quizListCachePrefix = "quiz:list:"

// ChoiceInput 出题时的单个选项
type ChoiceInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionInput 出题时的单个题目
type QuestionInput struct {
	Text    string        `json:"text" binding:"required"`
	Choices []ChoiceInput `json:"choices" binding:"required"`
}

// QuizInput 创建/更新测验的请求体
type QuizInput struct {
	Title              string          `json:"title" binding:"required"`
	Description        string          `json:"description"`
	ExamQuestionCount  int             `json:"exam_question_count"`
	RandomizeQuestions *bool           `json:"randomize_questions"`
	RandomizeChoices   *bool           `json:"randomize_choices"`
	QuestionsPerPage   int             `json:"questions_per_page"`
	Questions          []QuestionInput `json:"questions" binding:"required"`
}

// quizListPage 测验列表的缓存载荷
type quizListPage struct {
	Items []model.Quiz `json:"items"`
	Total int64        `json:"total"`
}

type QuizService struct {
	quizRepo *repository.QuizRepository
	rdb      *redis.Client
	cfg      *config.Config
}

func NewQuizService(quizRepo *repository.QuizRepository, rdb *redis.Client, cfg *config.Config) *QuizService {
	return &QuizService{quizRepo: quizRepo, rdb: rdb, cfg: cfg}
}

// validateInput 校验出题规则：每题固定选项数，且恰好一个正确答案
func (s *QuizService) validateInput(input *QuizInput) error {
	required := s.cfg.Quiz.RequiredChoiceCount
	for _, q := range input.Questions {
		if len(q.Choices) != required {
			return fmt.Errorf("%w: %q needs %d choices", util.ErrChoiceCount, q.Text, required)
		}
		correct := 0
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: %q has %d", util.ErrCorrectChoiceCount, q.Text, correct)
		}
	}
	return nil
}

func buildQuestions(inputs []QuestionInput) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for _, qi := range inputs {
		q := model.Question{Text: qi.Text}
		for _, ci := range qi.Choices {
			q.Choices = append(q.Choices, model.Choice{Text: ci.Text, IsCorrect: ci.IsCorrect})
		}
		questions = append(questions, q)
	}
	return questions
}

func (s *QuizService) applyInput(quiz *model.Quiz, input *QuizInput) {
	quiz.Title = input.Title
	quiz.Description = input.Description
	quiz.ExamQuestionCount = input.ExamQuestionCount
	if quiz.ExamQuestionCount <= 0 {
		quiz.ExamQuestionCount = util.DefaultExamQuestionCount
	}
	quiz.QuestionsPerPage = input.QuestionsPerPage
	if quiz.QuestionsPerPage <= 0 {
		quiz.QuestionsPerPage = util.DefaultQuestionsPerPage
	}
	// 乱序开关缺省为开启
	quiz.RandomizeQuestions = input.RandomizeQuestions == nil || *input.RandomizeQuestions
	quiz.RandomizeChoices = input.RandomizeChoices == nil || *input.RandomizeChoices
}

func (s *QuizService) CreateQuiz(ctx context.Context, input *QuizInput) (*model.Quiz, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{}
	s.applyInput(quiz, input)
	quiz.Questions = buildQuestions(input.Questions)

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	logger.Log.Info("Quiz created",
		zap.Uint("quizId", quiz.ID),
		zap.String("title", quiz.Title),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uint, input *QuizInput) (*model.Quiz, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	s.applyInput(quiz, input)
	questions := buildQuestions(input.Questions)

	err = s.quizRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions").Save(quiz).Error; err != nil {
			return err
		}
		return s.quizRepo.ReplaceQuestions(tx, quiz.ID, questions)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	logger.Log.Info("Quiz updated", zap.Uint("quizId", quiz.ID))
	return s.quizRepo.FindByIDWithQuestions(quiz.ID)
}

func (s *QuizService) DeleteQuiz(ctx context.Context, quizID uint) error {
	if _, err := s.quizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if err := s.quizRepo.Delete(quizID); err != nil {
		return err
	}
	s.invalidateListCache(ctx)

	logger.Log.Info("Quiz deleted", zap.Uint("quizId", quizID))
	return nil
}

// GetQuiz 返回测验基础信息
func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// GetQuizWithQuestions 返回测验及题目选项（含答案标记），仅供管理端使用
func (s *QuizService) GetQuizWithQuestions(quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// PreviewExam 管理端预览：生成一份试卷但不落库
func (s *QuizService) PreviewExam(quizID uint) ([]model.SnapshotQuestion, error) {
	quiz, err := s.GetQuizWithQuestions(quizID)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return MaterializeExam(quiz, rng)
}

// ListQuizzes 分页列出测验，结果短暂缓存以抗读放大
func (s *QuizService) ListQuizzes(ctx context.Context, page, limit int) ([]model.Quiz, int64, error) {
	cacheKey := fmt.Sprintf("%spage:%d:limit:%d", quizListCachePrefix, page, limit)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var pageData quizListPage
			if err := json.Unmarshal([]byte(cached), &pageData); err == nil {
				return pageData.Items, pageData.Total, nil
			}
		}
	}

	quizzes, total, err := s.quizRepo.List(page, limit)
	if err != nil {
		return nil, 0, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(quizListPage{Items: quizzes, Total: total}); err == nil {
			ttl := time.Duration(s.cfg.Quiz.ListCacheSeconds) * time.Second
			if err := s.rdb.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
				logger.Log.Warn("Failed to cache quiz list", zap.Error(err))
			}
		}
	}
	return quizzes, total, nil
}

// invalidateListCache 用 SCAN 增量遍历前缀下的键后删除，避免 KEYS 阻塞
func (s *QuizService) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	var keys []string
	iter := s.rdb.Scan(ctx, 0, quizListCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("Failed to scan quiz list cache keys", zap.Error(err))
		return
	}

	if len(keys) > 0 {
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			logger.Log.Warn("Failed to invalidate quiz list cache", zap.Error(err))
		}
	}
}
