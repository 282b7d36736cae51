package qualification

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"ibuild/models"
	courseModels "ibuild/models/course"
	"ibuild/services/errs"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Answer is one submitted answer. Exactly one of Choice, Choices or Text is
// expected, matching the question kind.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Choice     *int   `json:"choice,omitempty"`
	Choices    []int  `json:"choices,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Result is the outcome of a test submission.
type Result struct {
	Message      string `json:"message"`
	Score        int    `json:"score"`
	MinimumScore int    `json:"score_minimum"`
	Status       string `json:"status"`
	Role         string `json:"role"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Score tallies the credit for a set of answers against the question bank.
// Answers referencing unknown questions are ignored.
func Score(answers []Answer) int {
	var total float64

	for _, a := range answers {
		q := findQuestion(a.QuestionID)
		if q == nil {
			continue
		}

		switch q.Kind {
		case KindSingle:
			if a.Choice != nil && *a.Choice == q.CorrectAnswer {
				total += q.Points
			}
		case KindMultiple:
			correct := make(map[int]bool, len(q.CorrectAnswers))
			for _, idx := range q.CorrectAnswers {
				correct[idx] = true
			}
			seen := make(map[int]bool, len(a.Choices))
			correctCount := 0
			incorrectCount := 0
			for _, idx := range a.Choices {
				if seen[idx] {
					continue
				}
				seen[idx] = true
				if correct[idx] {
					correctCount++
				} else {
					incorrectCount++
				}
			}
			// Full credit only for the exact set; otherwise proportional
			// credit for the correct picks.
			if incorrectCount == 0 && correctCount == len(q.CorrectAnswers) {
				total += q.Points
			} else if correctCount > 0 {
				total += q.Points * float64(correctCount) / float64(len(q.CorrectAnswers))
			}
		case KindText:
			if len(strings.TrimSpace(a.Text)) > textAnswerMinLength {
				total += q.Points * textCreditRatio
			}
		}
	}

	return int(math.Round(total))
}

// validateAnswers checks each answer carries the payload shape its question
// kind expects, before any scoring happens.
func validateAnswers(answers []Answer) error {
	if len(answers) == 0 {
		return errs.Validation("at least one answer is required")
	}
	for _, a := range answers {
		q := findQuestion(a.QuestionID)
		if q == nil {
			continue
		}
		switch q.Kind {
		case KindSingle:
			if a.Choice == nil {
				return errs.Validation("question requires a single choice answer")
			}
			if *a.Choice < 0 || *a.Choice >= len(q.Options) {
				return errs.Validation("choice index out of range")
			}
		case KindMultiple:
			if len(a.Choices) == 0 {
				return errs.Validation("question requires a set of choices")
			}
			for _, idx := range a.Choices {
				if idx < 0 || idx >= len(q.Options) {
					return errs.Validation("choice index out of range")
				}
			}
		}
	}
	return nil
}

// forUpdate adds a row lock where the dialect supports one. SQLite has no
// row locks; its single-writer model already serializes the transaction.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// SubmitTest scores a submission and, on a pass, promotes the user to
// trainer. The already-passed check, the test write and the role update run
// in one transaction under a row lock so concurrent submissions serialize
// and either both effects land or neither does.
func (s *Service) SubmitTest(userID uint, answers []Answer) (*Result, error) {
	if err := validateAnswers(answers); err != nil {
		return nil, err
	}

	var result Result

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("user not found")
			}
			return err
		}

		var test courseModels.QualificationTest
		err := forUpdate(tx).Where("user_id = ?", userID).First(&test).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		exists := err == nil

		if exists && test.Status == courseModels.TestPassed {
			return errs.Conflict("qualification test already passed")
		}

		score := Score(answers)
		status := courseModels.TestFailed
		if score >= MinimumScore {
			status = courseModels.TestPassed
		}

		raw, err := json.Marshal(answers)
		if err != nil {
			return err
		}

		var passedAt *time.Time
		if status == courseModels.TestPassed {
			now := time.Now()
			passedAt = &now
		}

		if exists {
			test.Score = score
			test.Status = status
			test.Answers = datatypes.JSON(raw)
			test.PassedAt = passedAt
			if err := tx.Save(&test).Error; err != nil {
				return err
			}
		} else {
			test = courseModels.QualificationTest{
				UserID:   userID,
				Score:    score,
				Status:   status,
				Answers:  datatypes.JSON(raw),
				PassedAt: passedAt,
			}
			if err := tx.Create(&test).Error; err != nil {
				return err
			}
		}

		role := user.Role
		if status == courseModels.TestPassed {
			role = models.RoleTrainer
			if err := tx.Model(&user).Update("role", role).Error; err != nil {
				return err
			}
		}

		message := "Test failed. You may try again."
		if status == courseModels.TestPassed {
			message = "Congratulations! You are now a trainer."
		}

		result = Result{
			Message:      message,
			Score:        score,
			MinimumScore: MinimumScore,
			Status:       status,
			Role:         role,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetTestResult returns the latest test record for a user.
func (s *Service) GetTestResult(userID uint) (*courseModels.QualificationTest, error) {
	var test courseModels.QualificationTest
	if err := s.db.Where("user_id = ?", userID).First(&test).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("no test found for this user")
		}
		return nil, err
	}
	return &test, nil
}
