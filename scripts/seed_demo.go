// 演示数据初始化脚本
//
// 创建一个示例测验（含题库与正确答案），用于本地联调和前端开发。
// 已存在同名测验时跳过，重复执行无副作用。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"errors"
	"log"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/pkg/database"
	"quizhub_backend/pkg/logger"

	"gorm.io/gorm"
)

const demoQuizTitle = "Go 语言基础测验"

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := database.Migrate(db, &cfg.Quiz); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	var existing model.Quiz
	err = db.Where("title = ?", demoQuizTitle).First(&existing).Error
	if err == nil {
		log.Printf("示例测验已存在 (id=%d)，跳过", existing.ID)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("查询失败: %v", err)
	}

	quiz := buildDemoQuiz()
	if err := db.Create(quiz).Error; err != nil {
		log.Fatalf("创建示例测验失败: %v", err)
	}

	log.Printf("示例测验创建完成 (id=%d, %d 道题)", quiz.ID, len(quiz.Questions))
}

func buildDemoQuiz() *model.Quiz {
	type q struct {
		text    string
		choices [4]string
		correct int
	}

	bank := []q{
		{"Go 中声明变量的关键字是？", [4]string{"var", "let", "def", "dim"}, 0},
		{"哪种类型用于表示 UTF-8 字符串？", [4]string{"string", "char[]", "text", "rune[]"}, 0},
		{"启动一个 goroutine 使用哪个关键字？", [4]string{"async", "go", "spawn", "thread"}, 1},
		{"slice 的零值是什么？", [4]string{"空 slice", "nil", "panic", "未定义"}, 1},
		{"哪种结构用于 goroutine 间通信？", [4]string{"mutex", "channel", "pipe", "socket"}, 1},
		{"defer 语句的执行时机是？", [4]string{"立即执行", "函数返回前", "程序退出时", "下一次 GC"}, 1},
		{"map 的迭代顺序是？", [4]string{"插入顺序", "键排序", "随机", "值排序"}, 2},
		{"error 是什么？", [4]string{"结构体", "异常类", "接口", "枚举"}, 2},
		{"哪个包提供 JSON 编解码？", [4]string{"encoding/json", "fmt", "strconv", "io/json"}, 0},
		{"接收者为指针的方法可以修改接收者吗？", [4]string{"不能", "能", "仅限结构体", "仅限导出字段"}, 1},
		{"哪种方式可以安全地并发写同一个 map？", [4]string{"直接写入", "加锁保护", "多 goroutine 分段写", "无法实现"}, 1},
		{"const 能声明什么？", [4]string{"任意类型", "编译期常量", "全局变量", "函数"}, 1},
	}

	quiz := &model.Quiz{
		Title:              demoQuizTitle,
		Description:        "覆盖语法、并发与标准库的入门测验",
		ExamQuestionCount:  10,
		RandomizeQuestions: true,
		RandomizeChoices:   true,
		QuestionsPerPage:   5,
	}
	for _, item := range bank {
		question := model.Question{Text: item.text}
		for i, text := range item.choices {
			question.Choices = append(question.Choices, model.Choice{
				Text:      text,
				IsCorrect: i == item.correct,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}
