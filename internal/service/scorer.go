package service

import (
	"quizhub_backend/internal/model"
)

// ScoreAttempt 对照题库当前内容为作答判分。
// 每条作答按题目ID在题库中查找：题目不存在（已删除或ID无效）、
// 或所选选项不是该题的正确选项时不得分。
func ScoreAttempt(answers []model.AnswerItem, questions []model.Question) int {
	// question_id -> 正确选项ID
	correct := make(map[uint]uint, len(questions))
	for _, q := range questions {
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct[q.ID] = c.ID
				break
			}
		}
	}

	score := 0
	for _, a := range answers {
		if id, ok := correct[a.QuestionID]; ok && id == a.ChoiceID {
			score++
		}
	}
	return score
}

// MergeAnswers 按题目合并作答：incoming 覆盖同题旧作答，其余保留。
// 结果按首次作答顺序稳定排列，重复保存同一内容不会改变结果。
func MergeAnswers(existing, incoming []model.AnswerItem) []model.AnswerItem {
	merged := make([]model.AnswerItem, 0, len(existing)+len(incoming))
	index := make(map[uint]int, len(existing))

	for _, a := range existing {
		if pos, ok := index[a.QuestionID]; ok {
			merged[pos] = a
			continue
		}
		index[a.QuestionID] = len(merged)
		merged = append(merged, a)
	}
	for _, a := range incoming {
		if pos, ok := index[a.QuestionID]; ok {
			merged[pos] = a
			continue
		}
		index[a.QuestionID] = len(merged)
		merged = append(merged, a)
	}
	return merged
}
