package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")

	// ErrEmptyQuiz 测验没有题目，无法生成试卷
	ErrEmptyQuiz = errors.New("quiz has no questions")

	// ErrAlreadySubmitted 答卷已提交，禁止再次修改
	ErrAlreadySubmitted = errors.New("attempt already submitted")

	// ErrConflict 乐观锁重试耗尽，保存失败
	ErrConflict = errors.New("concurrent update conflict")

	// 出题校验错误，包装后会附带题目文本
	ErrChoiceCount        = errors.New("question must have the required number of choices")
	ErrCorrectChoiceCount = errors.New("question must have exactly one correct choice")
)

// IsValidationErr 判断是否为出题校验类错误
func IsValidationErr(err error) bool {
	return errors.Is(err, ErrChoiceCount) || errors.Is(err, ErrCorrectChoiceCount)
}
