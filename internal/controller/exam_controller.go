package controller

import (
	"strconv"

	"take_exam_backend/internal/service"
	"take_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
}

func NewExamController(svc *service.ExamService) *ExamController {
	return &ExamController{Service: svc}
}

// @Summary 创建试卷
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamRequest true "试卷信息"
// @Success 201 {object} util.Response
// @Router /api/take-exam [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// @Summary 获取试卷详情
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param examId path string true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/take-exam/{examId} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	examID := ctx.Param("examId")

	exam, err := c.Service.GetExam(ctx.Request.Context(), examID)
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// @Summary 学生端：获取本轮题目（不含答案）
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param examId path string true "试卷ID"
// @Param round query int false "轮次，默认 1"
// @Success 200 {object} util.Response
// @Router /api/take-exam/{examId}/questions [get]
func (c *ExamController) GetStudentQuestions(ctx *gin.Context) {
	examID := ctx.Param("examId")
	round := parseRound(ctx)

	questions, err := c.Service.StudentQuestions(ctx.Request.Context(), examID, round)
	if err != nil {
		util.ErrorFrom(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

func parseRound(ctx *gin.Context) int {
	round := service.MinRound
	if roundStr := ctx.Query("round"); roundStr != "" {
		if parsed, err := strconv.Atoi(roundStr); err == nil {
			round = parsed
		}
	}
	return round
}
