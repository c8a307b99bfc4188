package util

import (
	"errors"
	"fmt"
)

// ValidationError 请求数据不合法（题型与答案形状不匹配、选项越界、空批次等）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 资源不存在
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError 资源冲突（如重复的 examId）
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// LockedError 考试处于锁定窗口内，携带剩余秒数
type LockedError struct {
	RemainingSeconds int64
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("exam is locked, try again in %d seconds", e.RemainingSeconds)
}

// UnsupportedQuestionTypeError 未知题型
type UnsupportedQuestionTypeError struct {
	QuestionType string
}

func (e *UnsupportedQuestionTypeError) Error() string {
	return fmt.Sprintf("unsupported question type: %s", e.QuestionType)
}

// PersistenceError 存储层读写失败，与校验类错误区分开单独上抛
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
