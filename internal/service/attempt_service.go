package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/logger"
	"quizhub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 乐观锁更新失败时的重试次数
const casMaxRetries = 5

type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	quizRepo    *repository.QuizRepository

	// 随机源工厂，测试中替换为固定种子
	newRand func() *rand.Rand

	// 按 (用户, 测验) 串行化开卷，保证同一测验最多一份未提交答卷
	mu    sync.Mutex
	locks map[string]*attemptLock
}

type attemptLock struct {
	mu   sync.Mutex
	refs int
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		locks: make(map[string]*attemptLock),
	}
}

// lockAttemptKey 锁住 (用户, 测验) 键，返回解锁函数。
// 条目按等待者计数，最后一个持有者释放时从表中回收。
func (s *AttemptService) lockAttemptKey(userID, quizID uint) func() {
	key := fmt.Sprintf("%d:%d", userID, quizID)

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &attemptLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// StartAttempt 开卷：已有未提交答卷则原样返回，否则生成试卷快照并建新答卷。
// 返回值第二项表示是否为续答。
func (s *AttemptService) StartAttempt(userID, quizID uint) (*model.QuizAttempt, bool, error) {
	unlock := s.lockAttemptKey(userID, quizID)
	defer unlock()

	if attempt, err := s.attemptRepo.FindOpenByUserAndQuiz(userID, quizID); err == nil {
		monitoring.AttemptCounter.WithLabelValues("resumed").Inc()
		return attempt, true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrQuizNotFound
		}
		return nil, false, err
	}

	snapshot, err := MaterializeExam(quiz, s.newRand())
	if err != nil {
		return nil, false, err
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, false, err
	}

	attempt := &model.QuizAttempt{
		QuizID:       quizID,
		UserID:       userID,
		StartedAt:    time.Now(),
		ExamSnapshot: snapshotJSON,
		Answers:      json.RawMessage("[]"),
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, false, err
	}

	logger.Log.Info("Attempt started",
		zap.Uint("attemptId", attempt.ID),
		zap.Uint("quizId", quizID),
		zap.Uint("userId", userID),
		zap.Int("questions", len(snapshot)))
	monitoring.AttemptCounter.WithLabelValues("started").Inc()

	return attempt, false, nil
}

// GetAttempt 查询答卷，普通用户只能查看自己的
func (s *AttemptService) GetAttempt(userID uint, role model.UserRole, attemptID uint) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID && role != model.RoleAdmin {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

// GetLatestAttempt 查询用户在某测验上最近一次答卷
func (s *AttemptService) GetLatestAttempt(userID, quizID uint) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.FindLatestByUserAndQuiz(userID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) ListMyAttempts(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	return s.attemptRepo.ListByUser(userID, page, limit)
}

func (s *AttemptService) ListQuizAttempts(quizID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	if _, err := s.quizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrQuizNotFound
		}
		return nil, 0, err
	}
	return s.attemptRepo.ListByQuiz(quizID, page, limit)
}

// Autosave 暂存作答：与已保存作答按题目合并后整体写回。
// 重复提交相同内容不会产生额外变化；并发保存通过版本号重试合并。
func (s *AttemptService) Autosave(userID, attemptID uint, items []model.AnswerItem) (*model.QuizAttempt, error) {
	for i := 0; i < casMaxRetries; i++ {
		attempt, err := s.GetAttempt(userID, model.RoleUser, attemptID)
		if err != nil {
			return nil, err
		}
		if attempt.IsSubmitted() {
			return nil, util.ErrAlreadySubmitted
		}

		existing, err := attempt.DecodeAnswers()
		if err != nil {
			return nil, err
		}
		merged := MergeAnswers(existing, items)
		mergedJSON, err := json.Marshal(merged)
		if err != nil {
			return nil, err
		}

		rows, err := s.attemptRepo.UpdateAnswers(attempt.ID, attempt.Version, mergedJSON)
		if err != nil {
			return nil, err
		}
		if rows > 0 {
			monitoring.AttemptCounter.WithLabelValues("autosaved").Inc()
			attempt.Answers = mergedJSON
			attempt.Version++
			return attempt, nil
		}
		// 版本冲突或已被提交，重读后再试
	}
	return nil, util.ErrConflict
}

// Submit 交卷：以提交的作答为准覆盖暂存内容，对照题库判分并固化结果。
// 交卷只能成功一次，竞争提交中落败的一方收到已提交错误。
func (s *AttemptService) Submit(userID, attemptID uint, items []model.AnswerItem) (*model.QuizAttempt, error) {
	attempt, err := s.GetAttempt(userID, model.RoleUser, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsSubmitted() {
		return nil, util.ErrAlreadySubmitted
	}

	var final []model.AnswerItem
	if items != nil {
		// 按题去重，同题以最后一次作答为准
		final = MergeAnswers(nil, items)
	} else if final, err = attempt.DecodeAnswers(); err != nil {
		return nil, err
	}
	finalJSON, err := json.Marshal(final)
	if err != nil {
		return nil, err
	}

	// 判分以题库当前内容为准：逐条作答按题目ID查题库
	questionIDs := make([]uint, 0, len(final))
	for _, a := range final {
		questionIDs = append(questionIDs, a.QuestionID)
	}
	questions, err := s.quizRepo.FindQuestionsByIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	score := ScoreAttempt(final, questions)

	submittedAt := time.Now()
	rows, err := s.attemptRepo.Finalize(attempt.ID, finalJSON, score, submittedAt)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, util.ErrAlreadySubmitted
	}

	logger.Log.Info("Attempt submitted",
		zap.Uint("attemptId", attempt.ID),
		zap.Uint("userId", userID),
		zap.Int("score", score),
		zap.Int("answers", len(final)))
	monitoring.AttemptCounter.WithLabelValues("submitted").Inc()

	attempt.Answers = finalJSON
	attempt.Score = &score
	attempt.SubmittedAt = &submittedAt
	attempt.Version++
	return attempt, nil
}

// Reopen 管理员重开已提交答卷，清除得分并恢复作答
func (s *AttemptService) Reopen(attemptID uint) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.IsSubmitted() {
		if _, err := s.attemptRepo.Reopen(attempt.ID); err != nil {
			return nil, err
		}
		logger.Log.Info("Attempt reopened", zap.Uint("attemptId", attempt.ID))
		monitoring.AttemptCounter.WithLabelValues("reopened").Inc()
	}

	return s.attemptRepo.FindByID(attempt.ID)
}
