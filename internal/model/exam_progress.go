package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// AttemptLogEntry 单次评分提交的历史项
type AttemptLogEntry struct {
	Percentage float64   `json:"percentage"`
	Timestamp  time.Time `json:"timestamp"`
}

// AnswerLogEntry 最近一次提交中单题的作答明细
type AnswerLogEntry struct {
	SelectedAnswer string    `json:"selectedAnswer"`
	CorrectAnswer  string    `json:"correctAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	TimeTaken      int       `json:"timeTaken"`
	Timestamp      time.Time `json:"timestamp"`
}

// AttemptLog 只追加，保留全部历史
type AttemptLog []AttemptLogEntry

func (l AttemptLog) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *AttemptLog) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// AnswerLog 每次提交整体替换，只保留最近一次的明细
type AnswerLog []AnswerLogEntry

func (l AnswerLog) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *AnswerLog) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// ExamProgress 每个 examId 一条的答题进度聚合
// swagger:model ExamProgress
type ExamProgress struct {
	BaseModel
	ExamID            string     `gorm:"uniqueIndex;size:64;not null" json:"examId"`
	TotalQuestions    int        `gorm:"not null;default:0" json:"totalQuestions"`
	CorrectQuestions  int        `gorm:"not null;default:0" json:"correctQuestions"`
	Attempts          int        `gorm:"not null;default:0" json:"attempts"`
	HighestPercentage float64    `gorm:"not null;default:0" json:"highestPercentage"`
	LockUntil         *time.Time `json:"lockUntil"`
	LockCount         int        `gorm:"not null;default:0" json:"lockCount"`
	LastSubmittedAt   *time.Time `json:"lastSubmittedAt"`
	IsCompleted       bool       `gorm:"default:false" json:"isCompleted"`
	AttemptLog        AttemptLog `gorm:"type:json" json:"attemptLog"`
	AnswerLog         AnswerLog  `gorm:"type:json" json:"answerLog"`
}

func (ExamProgress) TableName() string {
	return "exam_progress"
}

// Locked 判断当前时刻是否还在锁定窗口内
func (p *ExamProgress) Locked(now time.Time) bool {
	return p.LockUntil != nil && p.LockUntil.After(now)
}

// RemainingLockSeconds 锁定窗口剩余秒数，向上取整
func (p *ExamProgress) RemainingLockSeconds(now time.Time) int64 {
	if !p.Locked(now) {
		return 0
	}
	remaining := p.LockUntil.Sub(now)
	secs := int64(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	return secs
}
