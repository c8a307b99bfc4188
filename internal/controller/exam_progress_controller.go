package controller

import (
	"take_exam_backend/internal/service"
	"take_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamProgressController struct {
	Progress *service.ExamProgressService
	Exams    *service.ExamService
}

func NewExamProgressController(progress *service.ExamProgressService, exams *service.ExamService) *ExamProgressController {
	return &ExamProgressController{Progress: progress, Exams: exams}
}

type SubmitAnswerRequest struct {
	Answers []service.SubmittedAnswer `json:"answers" binding:"required"`
}

type CalculateProgressRequest struct {
	TotalQuestions   int `json:"totalQuestions" binding:"required"`
	CorrectQuestions int `json:"correctQuestions"`
}

// @Summary 提交整卷作答
// @Tags 考试进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param examId path string true "试卷ID"
// @Param round query int false "轮次，默认 1"
// @Param body body SubmitAnswerRequest true "作答列表"
// @Success 200 {object} util.Response
// @Router /api/take-exam/submit/{examId} [post]
func (c *ExamProgressController) SubmitAnswer(ctx *gin.Context) {
	examID := ctx.Param("examId")

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 题目定义一律取自题库，不信任前端携带的题目数据
	questions, err := c.Exams.QuestionsForRound(ctx.Request.Context(), examID, parseRound(ctx))
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	snapshot, err := c.Progress.SubmitAnswer(ctx.Request.Context(), examID, req.Answers, questions)
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	util.Success(ctx, snapshot)
}

// @Summary 按外部计数重算进度
// @Tags 考试进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param examId path string true "试卷ID"
// @Param body body CalculateProgressRequest true "题目计数"
// @Success 200 {object} util.Response
// @Router /api/take-exam/calculate/{examId} [post]
func (c *ExamProgressController) CalculateProgress(ctx *gin.Context) {
	examID := ctx.Param("examId")

	var req CalculateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.Progress.CalculateProgress(ctx.Request.Context(), examID, req.TotalQuestions, req.CorrectQuestions)
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 查询考试进度
// @Tags 考试进度
// @Produce json
// @Security ApiKeyAuth
// @Param examId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/take-exam/progress/{examId} [get]
func (c *ExamProgressController) GetProgress(ctx *gin.Context) {
	examID := ctx.Param("examId")

	progress, err := c.Progress.GetProgress(ctx.Request.Context(), examID)
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
