package session

import (
	"context"
	_ "embed"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/benz9527/xlist/lib/infra"
)

//go:embed questions.yaml
var defaultQuestions []byte

type Question struct {
	Prompt  string   `yaml:"prompt"`
	Choices []string `yaml:"choices"`
	Answer  int      `yaml:"answer"`
	Points  int64    `yaml:"points"`
}

type questionBank struct {
	Questions []Question `yaml:"questions"`
}

type Quiz struct {
	questions []Question
}

// LoadQuiz parses the built-in question bank.
func LoadQuiz() (*Quiz, error) {
	return ParseQuiz(defaultQuestions)
}

func ParseQuiz(raw []byte) (*Quiz, error) {
	bank := questionBank{}
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[quiz] parse question bank")
	}
	for i, q := range bank.Questions {
		if len(q.Choices) == 0 || q.Answer < 0 || q.Answer >= len(q.Choices) {
			return nil, infra.NewErrorStack("[quiz] question " + strconv.Itoa(i) + " has no valid answer")
		}
	}
	return &Quiz{questions: bank.Questions}, nil
}

func (q *Quiz) Len() int {
	return len(q.questions)
}

func (q *Quiz) Question(idx int) (Question, error) {
	if idx < 0 || idx >= len(q.questions) {
		return Question{}, ErrQuestionOutOfRange
	}
	return q.questions[idx], nil
}

// Answer records the choice for question idx. Only the first answer
// counts, a correct one adds the question points to the session score.
func (q *Quiz) Answer(ctx context.Context, s *Session, idx, choice int) (bool, error) {
	question, err := q.Question(idx)
	if err != nil {
		return false, err
	}
	if choice < 0 || choice >= len(question.Choices) {
		return false, ErrChoiceOutOfRange
	}
	key := keyQuizPrefix + strconv.Itoa(idx)
	if _, answered, err := s.get(ctx, key); err != nil {
		return false, err
	} else if answered {
		return false, ErrAlreadyAnswered
	}

	correct := choice == question.Answer
	if err = s.set(ctx, key, strconv.FormatBool(correct)); err != nil {
		return false, err
	}
	if correct {
		if _, err = s.AddScore(ctx, question.Points); err != nil {
			return false, err
		}
	}
	return correct, nil
}

// Answered counts the answered and the correct questions of the session.
func (q *Quiz) Answered(ctx context.Context, s *Session) (answered, correct int, err error) {
	for i := range q.questions {
		v, ok, gerr := s.get(ctx, keyQuizPrefix+strconv.Itoa(i))
		if gerr != nil {
			return 0, 0, gerr
		}
		if !ok {
			continue
		}
		answered++
		if right, perr := strconv.ParseBool(v); perr != nil {
			err = multierr.Append(err, perr)
		} else if right {
			correct++
		}
	}
	return answered, correct, err
}
