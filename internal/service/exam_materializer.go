package service

import (
	"math/rand"
	"sort"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
)

// MaterializeExam 根据测验配置生成一次考试的题目快照。
// 题目抽样与选项乱序都由传入的随机源驱动，便于测试复现；
// 快照中不携带任何正确答案信息。
func MaterializeExam(quiz *model.Quiz, rng *rand.Rand) ([]model.SnapshotQuestion, error) {
	if len(quiz.Questions) == 0 {
		return nil, util.ErrEmptyQuiz
	}

	count := quiz.ExamQuestionCount
	if count <= 0 || count > len(quiz.Questions) {
		count = len(quiz.Questions)
	}

	// 抽题永远是均匀随机抽样，题目乱序开关只决定呈现顺序：
	// 关闭时选中的题目按目录顺序排列
	indexes := rng.Perm(len(quiz.Questions))[:count]
	if !quiz.RandomizeQuestions {
		sort.Ints(indexes)
	}

	snapshot := make([]model.SnapshotQuestion, 0, count)
	for _, idx := range indexes {
		q := quiz.Questions[idx]

		choices := make([]model.SnapshotChoice, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, model.SnapshotChoice{
				ChoiceID: c.ID,
				Text:     c.Text,
			})
		}
		if quiz.RandomizeChoices {
			rng.Shuffle(len(choices), func(i, j int) {
				choices[i], choices[j] = choices[j], choices[i]
			})
		}

		snapshot = append(snapshot, model.SnapshotQuestion{
			QuestionID: q.ID,
			Text:       q.Text,
			Choices:    choices,
		})
	}

	return snapshot, nil
}
