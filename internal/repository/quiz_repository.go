package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindByID 返回测验基础信息，不加载题目
func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByIDWithQuestions 返回测验及其题目和选项，按目录顺序排列
func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.id")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) List(page, limit int) ([]model.Quiz, int64, error) {
	var quizzes []model.Quiz
	var total int64

	if err := r.DB.Model(&model.Quiz{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, total, err
}

// ReplaceQuestions 事务内整体替换测验的题目与选项
func (r *QuizRepository) ReplaceQuestions(tx *gorm.DB, quizID uint, questions []model.Question) error {
	var questionIDs []uint
	if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).
		Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Unscoped().Where("question_id IN ?", questionIDs).
			Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}
	}
	for i := range questions {
		questions[i].QuizID = quizID
		if err := tx.Create(&questions[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete 级联删除测验、题目、选项与答卷
func (r *QuizRepository) Delete(quizID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Unscoped().Where("question_id IN ?", questionIDs).
				Delete(&model.Choice{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).
			Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Quiz{}, quizID).Error
	})
}

// FindQuestionsByIDs 按 ID 批量加载题目及选项（判分用）
func (r *QuizRepository) FindQuestionsByIDs(ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	err := r.DB.Preload("Choices").Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}
