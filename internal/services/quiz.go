package services

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

type QuizQuestionInput struct {
	Type            string             `json:"type"`
	PromptText      string             `json:"prompt_text"`
	PromptImageURL  string             `json:"prompt_image_url"`
	PromptAudioURL  string             `json:"prompt_audio_url"`
	Options         []types.QuizOption `json:"options"`
	CorrectOptionID string             `json:"correct_option_id"`
}

type QuizInput struct {
	Title     string
	LessonID  string
	Language  string
	IsActive  *bool
	Settings  *types.QuizSettings
	Questions []QuizQuestionInput
}

type SubmittedAnswer struct {
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedOptionID string    `json:"selected_option_id"`
	TimeTakenSec     int       `json:"time_taken_sec"`
}

type SubmitResult struct {
	Attempt           *types.QuizAttempt `json:"attempt"`
	ScorePct          int                `json:"score_pct"`
	Correct           int                `json:"correct"`
	Total             int                `json:"total"`
	Passed            bool               `json:"passed"`
	RemainingAttempts int                `json:"remaining_attempts"`
}

// QuizUserRollup aggregates one student's attempts on a quiz.
type QuizUserRollup struct {
	UserID        uuid.UUID  `json:"user_id"`
	Attempts      int        `json:"attempts"`
	BestScorePct  int        `json:"best_score_pct"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

type QuizSummary struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	Attempts     int       `json:"attempts"`
	BestScorePct int       `json:"best_score_pct"`
	AvgScorePct  float64   `json:"avg_score_pct"`
	Passed       bool      `json:"passed"`
}

type QuizService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input QuizInput) (*types.Quiz, error)
	Get(ctx context.Context, viewer requestdata.RequestData, quizID uuid.UUID) (*types.Quiz, error)
	ForLesson(ctx context.Context, viewer requestdata.RequestData, lessonID string) ([]*types.Quiz, error)
	List(ctx context.Context, viewer requestdata.RequestData, filter repos.QuizListFilter) ([]*types.Quiz, int64, error)
	Update(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID, input QuizInput) (*types.Quiz, error)
	SetActive(ctx context.Context, quizID uuid.UUID, active bool) (*types.Quiz, error)
	Delete(ctx context.Context, quizID uuid.UUID) error
	Submit(ctx context.Context, studentID uuid.UUID, quizID uuid.UUID, answers []SubmittedAnswer) (*SubmitResult, error)
	AttemptsForQuiz(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID) ([]*types.QuizAttempt, error)
	SummaryForQuiz(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID) ([]QuizUserRollup, error)
	AttemptsForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID) ([]*types.QuizAttempt, error)
	SummaryForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID) ([]QuizSummary, error)
}

type quizService struct {
	db          *gorm.DB
	log         *logger.Logger
	quizRepo    repos.QuizRepo
	attemptRepo repos.QuizAttemptRepo
	access      AccessService
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	quizRepo repos.QuizRepo,
	attemptRepo repos.QuizAttemptRepo,
	access AccessService,
) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{
		db:          db,
		log:         serviceLog,
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		access:      access,
	}
}

func (qs *quizService) Create(ctx context.Context, creatorID uuid.UUID, input QuizInput) (*types.Quiz, error) {
	quiz, err := buildQuiz(input)
	if err != nil {
		return nil, err
	}
	quiz.ID = uuid.New()
	quiz.CreatedBy = creatorID

	if _, err := qs.quizRepo.Create(ctx, nil, quiz); err != nil {
		return nil, apierr.Internal(err)
	}
	qs.log.Info("quiz created", "quiz_id", quiz.ID, "questions", len(quiz.Questions))
	return quiz, nil
}

func (qs *quizService) Get(ctx context.Context, viewer requestdata.RequestData, quizID uuid.UUID) (*types.Quiz, error) {
	quiz, err := qs.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("quiz not found")
		}
		return nil, apierr.Internal(err)
	}
	if !quiz.IsActive && !canSeeDrafts(viewer) {
		return nil, apierr.NotFound("quiz not available")
	}
	return quiz, nil
}

func (qs *quizService) ForLesson(ctx context.Context, viewer requestdata.RequestData, lessonID string) ([]*types.Quiz, error) {
	quizzes, err := qs.quizRepo.GetByLesson(ctx, nil, lessonID, !canSeeDrafts(viewer))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return quizzes, nil
}

func (qs *quizService) List(ctx context.Context, viewer requestdata.RequestData, filter repos.QuizListFilter) ([]*types.Quiz, int64, error) {
	if !canSeeDrafts(viewer) {
		filter.ActiveOnly = true
	}
	quizzes, total, err := qs.quizRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return quizzes, total, nil
}

func (qs *quizService) Update(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID, input QuizInput) (*types.Quiz, error) {
	existing, err := qs.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("quiz not found")
		}
		return nil, apierr.Internal(err)
	}
	if actor.Role == types.RoleTeacher && existing.CreatedBy != actor.UserID {
		return nil, apierr.Forbidden("teachers may only edit their own quizzes")
	}

	updated, err := buildQuiz(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	if input.IsActive == nil {
		updated.IsActive = existing.IsActive
	}

	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := qs.quizRepo.Update(ctx, tx, updated); err != nil {
			return err
		}
		return qs.quizRepo.ReplaceQuestions(ctx, tx, updated.ID, updated.Questions)
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return updated, nil
}

func (qs *quizService) SetActive(ctx context.Context, quizID uuid.UUID, active bool) (*types.Quiz, error) {
	quiz, err := qs.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("quiz not found")
		}
		return nil, apierr.Internal(err)
	}
	if err := qs.quizRepo.SetActive(ctx, nil, quizID, active); err != nil {
		return nil, apierr.Internal(err)
	}
	quiz.IsActive = active
	return quiz, nil
}

func (qs *quizService) Delete(ctx context.Context, quizID uuid.UUID) error {
	if _, err := qs.quizRepo.GetByID(ctx, nil, quizID); err != nil {
		if repos.IsNotFound(err) {
			return apierr.NotFound("quiz not found")
		}
		return apierr.Internal(err)
	}
	if err := qs.quizRepo.Delete(ctx, nil, quizID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (qs *quizService) Submit(ctx context.Context, studentID uuid.UUID, quizID uuid.UUID, answers []SubmittedAnswer) (*SubmitResult, error) {
	quiz, err := qs.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("quiz not found")
		}
		return nil, apierr.Internal(err)
	}
	if !quiz.IsActive {
		return nil, apierr.NotFound("quiz not available")
	}

	prior, err := qs.attemptRepo.CountByUserAndQuiz(ctx, nil, studentID, quizID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	maxAttempts := quiz.Settings.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if prior >= int64(maxAttempts) {
		return nil, apierr.LimitExceeded("attempt limit of %d reached", maxAttempts)
	}

	graded, correct, scorePct := gradeAttempt(quiz.Questions, answers)
	answersJSON, err := json.Marshal(graded)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	now := time.Now().UTC()
	attempt := &types.QuizAttempt{
		ID:          uuid.New(),
		UserID:      studentID,
		QuizID:      quizID,
		LessonID:    quiz.LessonID,
		StartedAt:   now,
		CompletedAt: &now,
		Answers:     datatypes.JSON(answersJSON),
		Correct:     correct,
		Total:       len(quiz.Questions),
		ScorePct:    scorePct,
		Status:      types.AttemptStatusCompleted,
	}
	if _, err := qs.attemptRepo.Create(ctx, nil, attempt); err != nil {
		return nil, apierr.Internal(err)
	}

	passingScore := quiz.Settings.PassingScore
	if passingScore <= 0 {
		passingScore = 60
	}
	remaining := maxAttempts - int(prior) - 1
	if remaining < 0 {
		remaining = 0
	}

	qs.log.Info("quiz submitted",
		"quiz_id", quizID,
		"user_id", studentID,
		"score_pct", scorePct)
	return &SubmitResult{
		Attempt:           attempt,
		ScorePct:          scorePct,
		Correct:           correct,
		Total:             len(quiz.Questions),
		Passed:            scorePct >= passingScore,
		RemainingAttempts: remaining,
	}, nil
}

func (qs *quizService) AttemptsForQuiz(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	if _, err := qs.quizRepo.GetByID(ctx, nil, quizID); err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("quiz not found")
		}
		return nil, apierr.Internal(err)
	}
	return qs.attemptsVisibleTo(ctx, actor, quizID)
}

// attemptsVisibleTo narrows a quiz's attempts to what the caller may see:
// staff see everything, parents the attempts of their linked children,
// students their own.
func (qs *quizService) attemptsVisibleTo(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	switch actor.Role {
	case types.RoleTeacher, types.RoleAdmin:
		attempts, err := qs.attemptRepo.ListByQuiz(ctx, nil, quizID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		return attempts, nil
	case types.RoleParent:
		attempts, err := qs.attemptRepo.ListByQuiz(ctx, nil, quizID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		visible := make([]*types.QuizAttempt, 0, len(attempts))
		allowed := map[uuid.UUID]bool{}
		for _, a := range attempts {
			ok, seen := allowed[a.UserID]
			if !seen {
				switch accessErr := qs.access.CanViewLearner(ctx, actor, a.UserID); {
				case accessErr == nil:
					ok = true
				case apierr.From(accessErr).Status == http.StatusForbidden:
					ok = false
				default:
					return nil, accessErr
				}
				allowed[a.UserID] = ok
			}
			if ok {
				visible = append(visible, a)
			}
		}
		return visible, nil
	case types.RoleStudent:
		attempts, err := qs.attemptRepo.ListByUserAndQuiz(ctx, nil, actor.UserID, quizID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		return attempts, nil
	default:
		return nil, apierr.Forbidden("not allowed to view quiz attempts")
	}
}

// SummaryForQuiz rolls up a quiz's attempts per student, best score first.
// The caller's role decides which students appear, same as AttemptsForQuiz.
func (qs *quizService) SummaryForQuiz(ctx context.Context, actor requestdata.RequestData, quizID uuid.UUID) ([]QuizUserRollup, error) {
	if _, err := qs.quizRepo.GetByID(ctx, nil, quizID); err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("quiz not found")
		}
		return nil, apierr.Internal(err)
	}
	attempts, err := qs.attemptsVisibleTo(ctx, actor, quizID)
	if err != nil {
		return nil, err
	}
	return rollupAttemptsByUser(attempts), nil
}

func rollupAttemptsByUser(attempts []*types.QuizAttempt) []QuizUserRollup {
	byUser := map[uuid.UUID]*QuizUserRollup{}
	order := []uuid.UUID{}
	for _, a := range attempts {
		r, ok := byUser[a.UserID]
		if !ok {
			r = &QuizUserRollup{UserID: a.UserID}
			byUser[a.UserID] = r
			order = append(order, a.UserID)
		}
		r.Attempts++
		if a.ScorePct > r.BestScorePct {
			r.BestScorePct = a.ScorePct
		}
		at := a.StartedAt
		if a.CompletedAt != nil {
			at = *a.CompletedAt
		}
		if r.LastAttemptAt == nil || at.After(*r.LastAttemptAt) {
			last := at
			r.LastAttemptAt = &last
		}
	}
	rollups := make([]QuizUserRollup, 0, len(order))
	for _, id := range order {
		rollups = append(rollups, *byUser[id])
	}
	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].BestScorePct > rollups[j].BestScorePct
	})
	return rollups
}

func (qs *quizService) AttemptsForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	if err := qs.access.CanViewLearner(ctx, viewer, userID); err != nil {
		return nil, err
	}
	attempts, err := qs.attemptRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return attempts, nil
}

func (qs *quizService) SummaryForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID) ([]QuizSummary, error) {
	if err := qs.access.CanViewLearner(ctx, viewer, userID); err != nil {
		return nil, err
	}
	attempts, err := qs.attemptRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	byQuiz := map[uuid.UUID][]*types.QuizAttempt{}
	order := []uuid.UUID{}
	for _, a := range attempts {
		if _, seen := byQuiz[a.QuizID]; !seen {
			order = append(order, a.QuizID)
		}
		byQuiz[a.QuizID] = append(byQuiz[a.QuizID], a)
	}

	summaries := make([]QuizSummary, 0, len(order))
	for _, quizID := range order {
		group := byQuiz[quizID]
		best := 0
		sum := 0
		passed := false
		var passing int
		if quiz, err := qs.quizRepo.GetByID(ctx, nil, quizID); err == nil {
			passing = quiz.Settings.PassingScore
		}
		if passing <= 0 {
			passing = 60
		}
		for _, a := range group {
			if a.ScorePct > best {
				best = a.ScorePct
			}
			sum += a.ScorePct
			if a.ScorePct >= passing {
				passed = true
			}
		}
		summaries = append(summaries, QuizSummary{
			QuizID:       quizID,
			Attempts:     len(group),
			BestScorePct: best,
			AvgScorePct:  math.Round(float64(sum)/float64(len(group))*10) / 10,
			Passed:       passed,
		})
	}
	return summaries, nil
}

// gradeAttempt scores answers against the question set. Every question counts
// toward the denominator whether or not it was answered, and answers naming
// unknown questions are kept as incorrect.
func gradeAttempt(questions []*types.QuizQuestion, answers []SubmittedAnswer) ([]types.AttemptAnswer, int, int) {
	keyByQuestion := make(map[uuid.UUID]string, len(questions))
	for _, q := range questions {
		keyByQuestion[q.ID] = q.CorrectOptionID
	}

	graded := make([]types.AttemptAnswer, 0, len(answers))
	correct := 0
	for _, a := range answers {
		key, known := keyByQuestion[a.QuestionID]
		isCorrect := known && key != "" && a.SelectedOptionID == key
		if isCorrect {
			correct++
		}
		graded = append(graded, types.AttemptAnswer{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			IsCorrect:        isCorrect,
			TimeTakenSec:     a.TimeTakenSec,
		})
	}

	scorePct := 0
	if len(questions) > 0 {
		scorePct = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	}
	return graded, correct, scorePct
}

func buildQuiz(input QuizInput) (*types.Quiz, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.Validation("title is required")
	}
	if len(input.Questions) == 0 {
		return nil, apierr.Validation("quiz needs at least one question")
	}

	language := input.Language
	if language == "" {
		language = "en"
	}
	settings := types.QuizSettings{
		AllowRetry:     true,
		MaxAttempts:    3,
		ShuffleOptions: true,
		PassingScore:   60,
	}
	if input.Settings != nil {
		settings = *input.Settings
		if settings.MaxAttempts <= 0 {
			settings.MaxAttempts = 3
		}
		if settings.PassingScore <= 0 {
			settings.PassingScore = 60
		}
	}

	questions := make([]*types.QuizQuestion, 0, len(input.Questions))
	for i, q := range input.Questions {
		if len(q.Options) < 2 || len(q.Options) > 4 {
			return nil, apierr.Validation("question %d must have 2-4 options", i+1)
		}
		if q.CorrectOptionID == "" {
			return nil, apierr.Validation("question %d is missing correct_option_id", i+1)
		}
		found := false
		for _, opt := range q.Options {
			if opt.ID == q.CorrectOptionID {
				found = true
				break
			}
		}
		if !found {
			return nil, apierr.Validation("question %d: correct_option_id does not match any option", i+1)
		}
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		qType := q.Type
		if qType == "" {
			qType = "single"
		}
		questions = append(questions, &types.QuizQuestion{
			ID:              uuid.New(),
			Type:            qType,
			PromptText:      q.PromptText,
			PromptImageURL:  q.PromptImageURL,
			PromptAudioURL:  q.PromptAudioURL,
			Options:         datatypes.JSON(optionsJSON),
			CorrectOptionID: q.CorrectOptionID,
			Order:           i + 1,
		})
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	return &types.Quiz{
		Title:     title,
		LessonID:  strings.TrimSpace(input.LessonID),
		IsActive:  isActive,
		Language:  language,
		Settings:  settings,
		Questions: questions,
	}, nil
}
