package repository

import (
	"context"
	"errors"

	"take_exam_backend/internal/model"
	"take_exam_backend/internal/util"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	if err := r.DB.WithContext(ctx).Create(exam).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.NewConflictError("exam with ID %s already exists", exam.ExamID)
		}
		return util.NewPersistenceError("create exam", err)
	}
	return nil
}

func (r *ExamRepository) FindByExamID(ctx context.Context, examID string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc, created_at asc")
		}).
		Where("exam_id = ?", examID).
		First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewNotFoundError("exam with ID %s not found", examID)
		}
		return nil, util.NewPersistenceError("find exam", err)
	}
	return &exam, nil
}

func (r *ExamRepository) ExistsByExamID(ctx context.Context, examID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Exam{}).Where("exam_id = ?", examID).Count(&count).Error
	if err != nil {
		return false, util.NewPersistenceError("count exams", err)
	}
	return count > 0, nil
}

// QuestionsForRound 返回某一轮次的有序题目定义
func (r *ExamRepository) QuestionsForRound(ctx context.Context, examID string, round int) ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND round = ?", examID, round).
		Order("`order` asc, created_at asc").
		Find(&questions).Error
	if err != nil {
		return nil, util.NewPersistenceError("list exam questions", err)
	}
	return questions, nil
}
