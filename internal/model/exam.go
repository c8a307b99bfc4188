package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"take_exam_backend/internal/util"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

type ExamLevel string

const (
	LevelEasy   ExamLevel = "easy"
	LevelMedium ExamLevel = "medium"
	LevelHard   ExamLevel = "hard"
)

// StringList JSON 列存储的字符串数组
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// IntList JSON 列存储的整数数组
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *IntList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// swagger:model Exam
type Exam struct {
	UUIDBase
	ExamID       string         `gorm:"uniqueIndex;size:64;not null" json:"examId"`
	RoadmapID    string         `gorm:"index;size:64" json:"roadmapId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	PassingScore int            `gorm:"default:0" json:"passingScore"` // 百分比
	ExamTime     int            `gorm:"default:0" json:"examTime"`     // Minutes
	Level        ExamLevel      `gorm:"size:20" json:"level"`
	Tags         StringList     `gorm:"type:json" json:"tags"`
	Questions    []ExamQuestion `gorm:"foreignKey:ExamID;references:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion 单题定义，正确答案按题型分列存储（tagged union，见 CorrectAnswer）
// swagger:model ExamQuestion
type ExamQuestion struct {
	UUIDBase
	ExamID       string       `gorm:"index;size:64;not null" json:"-"`
	Round        int          `gorm:"index;default:1" json:"round"`
	Prompt       string       `gorm:"type:text;not null" json:"question"`
	Options      StringList   `gorm:"type:json" json:"examOptions"`
	QuestionType QuestionType `gorm:"size:32;not null" json:"questionType"`
	Points       int          `gorm:"default:1" json:"points"`
	Order        int          `gorm:"default:0" json:"order"`

	// 每种题型只填写自己的列
	CorrectOption  *int    `gorm:"column:correct_option" json:"correctOption,omitempty"`
	CorrectOptions IntList `gorm:"column:correct_options;type:json" json:"correctOptions,omitempty"`
	CorrectBool    *bool   `gorm:"column:correct_bool" json:"correctBool,omitempty"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// CorrectAnswer 题目正确答案的变体表示，按 QuestionType 区分
type CorrectAnswer interface {
	correctAnswer()
}

// SingleChoiceAnswer 指向 Options 的下标
type SingleChoiceAnswer int

// MultipleChoiceAnswer 指向 Options 的下标集合
type MultipleChoiceAnswer []int

// TrueFalseAnswer 解码后的布尔答案
type TrueFalseAnswer bool

func (SingleChoiceAnswer) correctAnswer()   {}
func (MultipleChoiceAnswer) correctAnswer() {}
func (TrueFalseAnswer) correctAnswer()      {}

// CorrectAnswer 解码该题的正确答案，校验变体列与题型匹配且下标在选项范围内。
func (q *ExamQuestion) CorrectAnswer() (CorrectAnswer, error) {
	switch q.QuestionType {
	case SingleChoice:
		if q.CorrectOption == nil {
			return nil, util.NewValidationError("question %q: single_choice requires a correct option index", q.Prompt)
		}
		if *q.CorrectOption < 0 || *q.CorrectOption >= len(q.Options) {
			return nil, util.NewValidationError("question %q: correct option index %d out of range", q.Prompt, *q.CorrectOption)
		}
		return SingleChoiceAnswer(*q.CorrectOption), nil
	case MultipleChoice:
		if len(q.CorrectOptions) == 0 {
			return nil, util.NewValidationError("question %q: multiple_choice requires at least one correct option index", q.Prompt)
		}
		seen := make(map[int]struct{}, len(q.CorrectOptions))
		for _, idx := range q.CorrectOptions {
			if idx < 0 || idx >= len(q.Options) {
				return nil, util.NewValidationError("question %q: correct option index %d out of range", q.Prompt, idx)
			}
			// 重复下标会让集合比较把单选文本当成全对，建卷时就拒绝
			if _, dup := seen[idx]; dup {
				return nil, util.NewValidationError("question %q: duplicate correct option index %d", q.Prompt, idx)
			}
			seen[idx] = struct{}{}
		}
		return MultipleChoiceAnswer(q.CorrectOptions), nil
	case TrueFalse:
		if q.CorrectBool == nil {
			return nil, util.NewValidationError("question %q: true_false requires a correct boolean", q.Prompt)
		}
		return TrueFalseAnswer(*q.CorrectBool), nil
	default:
		return nil, &util.UnsupportedQuestionTypeError{QuestionType: string(q.QuestionType)}
	}
}
