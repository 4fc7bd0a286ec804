package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// 每次答题从题库抽取的题目数量
	ExamQuestionCount  int        `gorm:"default:10" json:"examQuestionCount"`
	RandomizeQuestions bool       `gorm:"default:true" json:"randomizeQuestions"`
	RandomizeChoices   bool       `gorm:"default:true" json:"randomizeChoices"`
	QuestionsPerPage   int        `gorm:"default:10" json:"questionsPerPage"`
	Questions          []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	BaseModel
	QuizID  uint     `gorm:"index;not null" json:"quizId"`
	Text    string   `gorm:"type:text;not null" json:"text"`
	Choices []Choice `gorm:"constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Choice) TableName() string {
	return "choices"
}
