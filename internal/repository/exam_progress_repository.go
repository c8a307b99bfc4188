package repository

import (
	"context"
	"errors"

	"take_exam_backend/internal/model"
	"take_exam_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamProgressRepository struct {
	DB *gorm.DB
}

func NewExamProgressRepository(db *gorm.DB) *ExamProgressRepository {
	return &ExamProgressRepository{DB: db}
}

func (r *ExamProgressRepository) Find(ctx context.Context, examID string) (*model.ExamProgress, error) {
	var progress model.ExamProgress
	err := r.DB.WithContext(ctx).Where("exam_id = ?", examID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewNotFoundError("progress for exam %s not found", examID)
		}
		return nil, util.NewPersistenceError("find exam progress", err)
	}
	return &progress, nil
}

// Mutate 在单个事务内对 examId 的记录做读-改-写：行级锁 (SELECT ... FOR UPDATE)
// 串行化同一 examId 的并发提交，避免丢失 attempts 自增或日志追加。
// fn 收到 nil 表示记录尚不存在，返回要持久化的记录；fn 返回错误则整体回滚。
func (r *ExamProgressRepository) Mutate(ctx context.Context, examID string, fn func(*model.ExamProgress) (*model.ExamProgress, error)) (*model.ExamProgress, error) {
	var result *model.ExamProgress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current *model.ExamProgress
		var existing model.ExamProgress
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("exam_id = ?", examID).
			First(&existing).Error
		if err == nil {
			current = &existing
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NewPersistenceError("lock exam progress", err)
		}

		updated, err := fn(current)
		if err != nil {
			return err
		}

		if err := tx.Save(updated).Error; err != nil {
			return util.NewPersistenceError("save exam progress", err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
