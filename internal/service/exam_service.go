package service

import (
	"context"

	"take_exam_backend/internal/model"
	"take_exam_backend/internal/util"
)

const (
	// 每份试卷固定三轮题目
	MinRound = 1
	MaxRound = 3
)

// ExamStore 试卷与题目定义的持久化抽象，由 repository.ExamRepository 实现
type ExamStore interface {
	Create(ctx context.Context, exam *model.Exam) error
	FindByExamID(ctx context.Context, examID string) (*model.Exam, error)
	ExistsByExamID(ctx context.Context, examID string) (bool, error)
	QuestionsForRound(ctx context.Context, examID string, round int) ([]model.ExamQuestion, error)
}

type ExamService struct {
	Store ExamStore
}

func NewExamService(store ExamStore) *ExamService {
	return &ExamService{Store: store}
}

type ExamQuestionRequest struct {
	Round        int                `json:"round"`
	Question     string             `json:"question" binding:"required"`
	ExamOptions  []string           `json:"examOptions"`
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`

	CorrectOption  *int  `json:"correctOption"`
	CorrectOptions []int `json:"correctOptions"`
	CorrectBool    *bool `json:"correctBool"`
}

type ExamRequest struct {
	ExamID       string                `json:"examId" binding:"required"`
	RoadmapID    string                `json:"roadmapId"`
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description"`
	PassingScore int                   `json:"passingScore"`
	ExamTime     int                   `json:"examTime"`
	Level        model.ExamLevel       `json:"level"`
	Tags         []string              `json:"tags"`
	Questions    []ExamQuestionRequest `json:"questions" binding:"required,dive"`
}

// CreateExam 建卷。每道题的正确答案变体在入库前整体校验，存在任何一道
// 非法题目则整卷拒绝。
func (s *ExamService) CreateExam(ctx context.Context, req ExamRequest) (*model.Exam, error) {
	if req.PassingScore < 0 || req.PassingScore > 100 {
		return nil, util.NewValidationError("passingScore must be between 0 and 100")
	}
	if len(req.Questions) == 0 {
		return nil, util.NewValidationError("exam must contain at least one question")
	}

	exists, err := s.Store.ExistsByExamID(ctx, req.ExamID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.NewConflictError("exam with ID %s already exists", req.ExamID)
	}

	exam := &model.Exam{
		ExamID:       req.ExamID,
		RoadmapID:    req.RoadmapID,
		Title:        req.Title,
		Description:  req.Description,
		PassingScore: req.PassingScore,
		ExamTime:     req.ExamTime,
		Level:        req.Level,
		Tags:         req.Tags,
	}

	for i, qr := range req.Questions {
		round := qr.Round
		if round == 0 {
			round = MinRound
		}
		if round < MinRound || round > MaxRound {
			return nil, util.NewValidationError("question %q: round must be between %d and %d", qr.Question, MinRound, MaxRound)
		}

		question := model.ExamQuestion{
			ExamID:         req.ExamID,
			Round:          round,
			Prompt:         qr.Question,
			Options:        qr.ExamOptions,
			QuestionType:   qr.QuestionType,
			Points:         qr.Points,
			Order:          qr.Order,
			CorrectOption:  qr.CorrectOption,
			CorrectOptions: qr.CorrectOptions,
			CorrectBool:    qr.CorrectBool,
		}
		if question.Order == 0 {
			question.Order = i + 1
		}
		if _, err := question.CorrectAnswer(); err != nil {
			return nil, err
		}
		exam.Questions = append(exam.Questions, question)
	}

	if err := s.Store.Create(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) GetExam(ctx context.Context, examID string) (*model.Exam, error) {
	return s.Store.FindByExamID(ctx, examID)
}

// QuestionsForRound 给提交流程用的本轮权威题目集合（轮次之外的选题策略
// 由调用方负责）
func (s *ExamService) QuestionsForRound(ctx context.Context, examID string, round int) ([]model.ExamQuestion, error) {
	if round < MinRound || round > MaxRound {
		return nil, util.NewValidationError("round must be between %d and %d", MinRound, MaxRound)
	}
	if _, err := s.Store.FindByExamID(ctx, examID); err != nil {
		return nil, err
	}
	return s.Store.QuestionsForRound(ctx, examID, round)
}

// StudentExamQuestion 学生端视图，剥掉所有正确答案字段
type StudentExamQuestion struct {
	ID           string             `json:"id"`
	Round        int                `json:"round"`
	Question     string             `json:"question"`
	ExamOptions  model.StringList   `json:"examOptions"`
	QuestionType model.QuestionType `json:"questionType"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`
}

func (s *ExamService) StudentQuestions(ctx context.Context, examID string, round int) ([]StudentExamQuestion, error) {
	questions, err := s.QuestionsForRound(ctx, examID, round)
	if err != nil {
		return nil, err
	}

	views := make([]StudentExamQuestion, len(questions))
	for i, q := range questions {
		views[i] = StudentExamQuestion{
			ID:           q.ID,
			Round:        q.Round,
			Question:     q.Prompt,
			ExamOptions:  q.Options,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Order:        q.Order,
		}
	}
	return views, nil
}
