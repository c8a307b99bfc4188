package service

import (
	"sort"
	"strconv"
	"strings"

	"take_exam_backend/internal/model"
	"take_exam_backend/internal/util"
)

// SubmittedAnswer 前端提交的单题作答；Answer 可能是 string、[]string 或 bool
type SubmittedAnswer struct {
	Question string      `json:"question" binding:"required"`
	Answer   interface{} `json:"answer"`
}

// ValidationResult 单题校验结果
type ValidationResult struct {
	IsCorrect bool
	// ScoreDelta 答对时为题目分值（缺省 1），答错为 0
	ScoreDelta int
	// SelectedAnswer / CorrectAnswer 展示用字符串，写入 answerLog
	SelectedAnswer string
	CorrectAnswer  string
}

// normalizeText 文本比较前的归一化：去零宽字符、小写、压缩空白
func normalizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200B', '\u200C', '\u200D', '\u2060', '\uFEFF':
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// ValidateAnswer 把一份作答与题目定义比对。答案形状与题型不匹配、正确答案
// 变体缺失或下标越界都以带类型的错误上抛，而不是默默判错。
func ValidateAnswer(submitted interface{}, question *model.ExamQuestion) (ValidationResult, error) {
	correct, err := question.CorrectAnswer()
	if err != nil {
		return ValidationResult{}, err
	}

	points := question.Points
	if points == 0 {
		points = 1
	}

	var result ValidationResult
	switch answer := correct.(type) {
	case model.SingleChoiceAnswer:
		text, err := coerceString(submitted)
		if err != nil {
			return ValidationResult{}, err
		}
		correctText := question.Options[int(answer)]
		result.IsCorrect = normalizeText(text) == normalizeText(correctText)
		result.SelectedAnswer = text
		result.CorrectAnswer = correctText

	case model.MultipleChoiceAnswer:
		texts, err := coerceStringSlice(submitted)
		if err != nil {
			return ValidationResult{}, err
		}
		correctTexts := make([]string, len(answer))
		for i, idx := range answer {
			correctTexts[i] = question.Options[idx]
		}
		result.IsCorrect = sameTextSet(texts, correctTexts)
		result.SelectedAnswer = strings.Join(texts, ", ")
		result.CorrectAnswer = strings.Join(correctTexts, ", ")

	case model.TrueFalseAnswer:
		value, err := coerceBool(submitted)
		if err != nil {
			return ValidationResult{}, err
		}
		result.IsCorrect = value == bool(answer)
		result.SelectedAnswer = strconv.FormatBool(value)
		result.CorrectAnswer = strconv.FormatBool(bool(answer))

	default:
		return ValidationResult{}, &util.UnsupportedQuestionTypeError{QuestionType: string(question.QuestionType)}
	}

	if result.IsCorrect {
		result.ScoreDelta = points
	}
	return result, nil
}

func coerceString(submitted interface{}) (string, error) {
	s, ok := submitted.(string)
	if !ok {
		return "", util.NewValidationError("single choice answer must be a string")
	}
	return s, nil
}

func coerceStringSlice(submitted interface{}) ([]string, error) {
	switch v := submitted.(type) {
	case []string:
		if len(v) == 0 {
			return nil, util.NewValidationError("multiple choice answer must be a non-empty array of strings")
		}
		return v, nil
	case []interface{}:
		// JSON 解码后的数组落到这里
		if len(v) == 0 {
			return nil, util.NewValidationError("multiple choice answer must be a non-empty array of strings")
		}
		texts := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, util.NewValidationError("multiple choice answer must contain only strings")
			}
			texts[i] = s
		}
		return texts, nil
	default:
		return nil, util.NewValidationError("multiple choice answer must be an array")
	}
}

func coerceBool(submitted interface{}) (bool, error) {
	switch v := submitted.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, util.NewValidationError(`true/false answer must be a boolean or "true"/"false" string`)
	default:
		return false, util.NewValidationError("true/false answer must be a boolean")
	}
}

// sameTextSet 归一化后的集合相等：顺序无关、重复折叠、不给部分分
func sameTextSet(submitted, correct []string) bool {
	normalize := func(texts []string) []string {
		set := make(map[string]struct{}, len(texts))
		for _, t := range texts {
			set[normalizeText(t)] = struct{}{}
		}
		out := make([]string, 0, len(set))
		for t := range set {
			out = append(out, t)
		}
		sort.Strings(out)
		return out
	}

	a, b := normalize(submitted), normalize(correct)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
