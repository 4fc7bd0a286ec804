package util

const (
	// DefaultExamQuestionCount 新建测验时默认抽题数量
	DefaultExamQuestionCount = 10

	// DefaultQuestionsPerPage 答题页默认每页题目数
	DefaultQuestionsPerPage = 10

	// DefaultPageSize 列表接口默认分页大小
	DefaultPageSize = 10
)
