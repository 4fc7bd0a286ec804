package repository

import (
	"encoding/json"
	"time"

	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.DB.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindOpenByUserAndQuiz 查找用户在某测验上未提交的答卷
func (r *AttemptRepository) FindOpenByUserAndQuiz(userID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND submitted_at IS NULL", userID, quizID).
		Order("id DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindLatestByUserAndQuiz 查找用户在某测验上最近一次答卷（含已提交）
func (r *AttemptRepository) FindLatestByUserAndQuiz(userID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("id DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) ListByUser(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	var attempts []model.QuizAttempt
	var total int64

	query := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) ListByQuiz(quizID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	var attempts []model.QuizAttempt
	var total int64

	query := r.DB.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

// UpdateAnswers 乐观并发更新：仅当版本匹配且未提交时生效。
// 返回受影响行数，0 表示版本冲突或答卷已进入终态。
func (r *AttemptRepository) UpdateAnswers(id uint, version uint, answers json.RawMessage) (int64, error) {
	res := r.DB.Model(&model.QuizAttempt{}).
		Where("id = ? AND version = ? AND submitted_at IS NULL", id, version).
		Updates(map[string]interface{}{
			"answers": answers,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

// Finalize 提交答卷：写入最终答案、得分与提交时间。
// 仅当答卷仍未提交时生效，返回受影响行数。
func (r *AttemptRepository) Finalize(id uint, answers json.RawMessage, score int, submittedAt time.Time) (int64, error) {
	res := r.DB.Model(&model.QuizAttempt{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Updates(map[string]interface{}{
			"answers":      answers,
			"score":        score,
			"submitted_at": submittedAt,
			"version":      gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

// Reopen 管理员重开答卷：清除提交时间与得分，恢复可编辑状态
func (r *AttemptRepository) Reopen(id uint) (int64, error) {
	res := r.DB.Model(&model.QuizAttempt{}).
		Where("id = ? AND submitted_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"submitted_at": nil,
			"score":        nil,
			"version":      gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}
