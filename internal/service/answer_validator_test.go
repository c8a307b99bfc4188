package service

import (
	"testing"

	"take_exam_backend/internal/model"
	"take_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func singleChoiceQuestion() *model.ExamQuestion {
	return &model.ExamQuestion{
		Prompt:        "Which keyword declares a constant in Go?",
		Options:       model.StringList{"var", "const", "let", "static"},
		QuestionType:  model.SingleChoice,
		CorrectOption: intPtr(1),
	}
}

func multipleChoiceQuestion() *model.ExamQuestion {
	return &model.ExamQuestion{
		Prompt:         "Which of these are Go built-in types?",
		Options:        model.StringList{"int", "class", "string", "interfaceimpl"},
		QuestionType:   model.MultipleChoice,
		CorrectOptions: model.IntList{0, 2},
	}
}

func trueFalseQuestion() *model.ExamQuestion {
	return &model.ExamQuestion{
		Prompt:       "Go has garbage collection.",
		QuestionType: model.TrueFalse,
		CorrectBool:  boolPtr(true),
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  const  ", "const"},
		{"lowercases", "CONST", "const"},
		{"collapses whitespace", "a   b\t c", "a b c"},
		{"strips zero width", "con\u200Bst\uFEFF", "const"},
		{"mixed", "  Con‌ ST ", "con st"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeText(tc.in))
		})
	}
}

func TestValidateAnswer_SingleChoice(t *testing.T) {
	q := singleChoiceQuestion()

	cases := []struct {
		name      string
		submitted interface{}
		correct   bool
	}{
		{"exact text", "const", true},
		{"different case", "CONST", true},
		{"extra whitespace", "  const  ", true},
		{"wrong option", "var", false},
		{"arbitrary text", "continue", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ValidateAnswer(tc.submitted, q)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, result.IsCorrect)
			if tc.correct {
				assert.Equal(t, 1, result.ScoreDelta)
			} else {
				assert.Equal(t, 0, result.ScoreDelta)
			}
			assert.Equal(t, "const", result.CorrectAnswer)
		})
	}
}

func TestValidateAnswer_SingleChoice_WrongShape(t *testing.T) {
	q := singleChoiceQuestion()

	for _, submitted := range []interface{}{[]string{"const"}, true, 7} {
		_, err := ValidateAnswer(submitted, q)
		var validation *util.ValidationError
		require.ErrorAs(t, err, &validation)
	}
}

func TestValidateAnswer_MultipleChoice(t *testing.T) {
	q := multipleChoiceQuestion()

	cases := []struct {
		name      string
		submitted interface{}
		correct   bool
	}{
		{"in order", []string{"int", "string"}, true},
		{"any order", []string{"string", "int"}, true},
		{"case and whitespace", []string{" STRING ", "Int"}, true},
		{"json decoded array", []interface{}{"int", "string"}, true},
		{"strict subset", []string{"int"}, false},
		{"superset", []string{"int", "string", "class"}, false},
		{"disjoint", []string{"class", "interfaceimpl"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ValidateAnswer(tc.submitted, q)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, result.IsCorrect)
		})
	}
}

func TestValidateAnswer_MultipleChoice_WrongShape(t *testing.T) {
	q := multipleChoiceQuestion()

	for _, submitted := range []interface{}{"int", []string{}, []interface{}{"int", 3}, false} {
		_, err := ValidateAnswer(submitted, q)
		var validation *util.ValidationError
		require.ErrorAs(t, err, &validation, "submitted %v", submitted)
	}
}

func TestValidateAnswer_MultipleChoice_DuplicateCorrectIndicesRejected(t *testing.T) {
	// [0,0] 折叠成单元素集合后，提交一个 "int" 就会被判全对；
	// 这样的题目定义必须在校验时报错而不是参与判分
	q := multipleChoiceQuestion()
	q.CorrectOptions = model.IntList{0, 0}

	_, err := ValidateAnswer([]string{"int"}, q)
	var validation *util.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "duplicate")
}

func TestValidateAnswer_MultipleChoice_RendersJoinedTexts(t *testing.T) {
	q := multipleChoiceQuestion()

	result, err := ValidateAnswer([]string{"string", "int"}, q)
	require.NoError(t, err)
	assert.Equal(t, "string, int", result.SelectedAnswer)
	assert.Equal(t, "int, string", result.CorrectAnswer)
}

func TestValidateAnswer_TrueFalse(t *testing.T) {
	q := trueFalseQuestion()

	cases := []struct {
		name      string
		submitted interface{}
		correct   bool
	}{
		{"boolean true", true, true},
		{"boolean false", false, false},
		{"string true", "true", true},
		{"string True", "True", true},
		{"string TRUE", "TRUE", true},
		{"string false", "false", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ValidateAnswer(tc.submitted, q)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, result.IsCorrect)
			assert.Equal(t, "true", result.CorrectAnswer)
		})
	}
}

func TestValidateAnswer_TrueFalse_WrongShape(t *testing.T) {
	q := trueFalseQuestion()

	for _, submitted := range []interface{}{"yes", 1, []string{"true"}} {
		_, err := ValidateAnswer(submitted, q)
		var validation *util.ValidationError
		require.ErrorAs(t, err, &validation, "submitted %v", submitted)
	}
}

func TestValidateAnswer_TrueFalse_RendersDecodedBool(t *testing.T) {
	q := trueFalseQuestion()

	result, err := ValidateAnswer("True", q)
	require.NoError(t, err)
	assert.Equal(t, "true", result.SelectedAnswer)
}

func TestValidateAnswer_PointsAwarded(t *testing.T) {
	q := singleChoiceQuestion()
	q.Points = 5

	result, err := ValidateAnswer("const", q)
	require.NoError(t, err)
	assert.Equal(t, 5, result.ScoreDelta)

	result, err = ValidateAnswer("var", q)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ScoreDelta)
}

func TestValidateAnswer_CorrectIndexOutOfRange(t *testing.T) {
	q := singleChoiceQuestion()
	q.CorrectOption = intPtr(9)

	_, err := ValidateAnswer("const", q)
	var validation *util.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestValidateAnswer_MissingVariant(t *testing.T) {
	q := singleChoiceQuestion()
	q.CorrectOption = nil

	_, err := ValidateAnswer("const", q)
	var validation *util.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestValidateAnswer_UnsupportedQuestionType(t *testing.T) {
	q := &model.ExamQuestion{
		Prompt:       "Explain pointers.",
		QuestionType: "essay",
	}

	_, err := ValidateAnswer("they point", q)
	var unsupported *util.UnsupportedQuestionTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "essay", unsupported.QuestionType)
}
