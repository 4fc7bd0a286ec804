package model

import (
	"encoding/json"
	"time"
)

// SnapshotChoice 试卷快照中的选项，不携带正确性标记
type SnapshotChoice struct {
	ChoiceID uint   `json:"choice_id"`
	Text     string `json:"text"`
}

// SnapshotQuestion 试卷快照中的题目，顺序即呈现顺序
type SnapshotQuestion struct {
	QuestionID uint             `json:"question_id"`
	Text       string           `json:"text"`
	Choices    []SnapshotChoice `json:"choices"`
}

// AnswerItem 单题作答：题目ID与所选选项ID
type AnswerItem struct {
	QuestionID uint `json:"question_id" binding:"required"`
	ChoiceID   uint `json:"choice_id" binding:"required"`
}

// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	QuizID    uint       `gorm:"index;not null" json:"quizId"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	StartedAt time.Time  `json:"startedAt"`
	// 为空表示答题中；非空表示已提交，记录不可再变更
	SubmittedAt *time.Time `json:"submittedAt"`
	Score       *int       `json:"score"`
	// 开卷时固化的试卷快照，之后不再重新生成
	ExamSnapshot json.RawMessage `gorm:"type:json" json:"examSnapshot"`
	Answers      json.RawMessage `gorm:"type:json" json:"answers"`
	// 乐观锁版本号，autosave/submit 并发控制用
	Version uint `gorm:"default:0" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// IsSubmitted 答卷是否已进入终态
func (a *QuizAttempt) IsSubmitted() bool {
	return a.SubmittedAt != nil
}

// DecodeSnapshot 解析固化的试卷快照
func (a *QuizAttempt) DecodeSnapshot() ([]SnapshotQuestion, error) {
	if len(a.ExamSnapshot) == 0 {
		return nil, nil
	}
	var snapshot []SnapshotQuestion
	if err := json.Unmarshal(a.ExamSnapshot, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// DecodeAnswers 解析已保存的作答列表
func (a *QuizAttempt) DecodeAnswers() ([]AnswerItem, error) {
	if len(a.Answers) == 0 {
		return nil, nil
	}
	var answers []AnswerItem
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
