// 手动导入演示试卷的脚本
//
// 开发环境首次启动时可以用它往题库灌一份三轮结构的演示卷，
// examId 已存在时直接跳过，不会覆盖线上数据。
//
// 用法: go run scripts/seed_exams.go

package main

import (
	"context"
	"log"

	"take_exam_backend/internal/config"
	"take_exam_backend/internal/model"
	"take_exam_backend/internal/repository"
	"take_exam_backend/internal/service"
	"take_exam_backend/pkg/database"
	"take_exam_backend/pkg/logger"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

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

	examService := service.NewExamService(repository.NewExamRepository(db))
	ctx := context.Background()

	req := service.ExamRequest{
		ExamID:       "go-fundamentals-demo",
		Title:        "Go 基础演示卷",
		Description:  "三轮结构的演示试卷，覆盖全部三种题型",
		PassingScore: 60,
		ExamTime:     30,
		Level:        model.LevelEasy,
		Tags:         []string{"demo", "go"},
		Questions: []service.ExamQuestionRequest{
			{
				Round:         1,
				Question:      "Which keyword declares a constant in Go?",
				ExamOptions:   []string{"var", "const", "let", "static"},
				QuestionType:  model.SingleChoice,
				CorrectOption: intPtr(1),
			},
			{
				Round:          1,
				Question:       "Which of these are Go built-in types?",
				ExamOptions:    []string{"int", "class", "string", "template"},
				QuestionType:   model.MultipleChoice,
				CorrectOptions: []int{0, 2},
			},
			{
				Round:        2,
				Question:     "Go has garbage collection.",
				QuestionType: model.TrueFalse,
				CorrectBool:  boolPtr(true),
			},
			{
				Round:         2,
				Question:      "Which function is the entry point of a Go program?",
				ExamOptions:   []string{"init", "main", "start", "run"},
				QuestionType:  model.SingleChoice,
				CorrectOption: intPtr(1),
			},
			{
				Round:        3,
				Question:     "A nil map can be written to without panicking.",
				QuestionType: model.TrueFalse,
				CorrectBool:  boolPtr(false),
			},
		},
	}

	exists, err := examService.Store.ExistsByExamID(ctx, req.ExamID)
	if err != nil {
		log.Fatalf("查询试卷失败: %v", err)
	}
	if exists {
		log.Printf("试卷 %s 已存在，跳过导入", req.ExamID)
		return
	}

	exam, err := examService.CreateExam(ctx, req)
	if err != nil {
		log.Fatalf("导入试卷失败: %v", err)
	}
	log.Printf("导入完成: %s（%d 道题）", exam.ExamID, len(exam.Questions))
}
