package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

type QuizListFilter struct {
	LessonID   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) (*types.Quiz, error)
	GetByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (*types.Quiz, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID string, activeOnly bool) ([]*types.Quiz, error)
	List(ctx context.Context, tx *gorm.DB, filter QuizListFilter) ([]*types.Quiz, int64, error)
	Update(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) (*types.Quiz, error)
	SetActive(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, active bool) error
	ReplaceQuestions(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, questions []*types.QuizQuestion) error
	Delete(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	repoLog := baseLog.With("repo", "QuizRepo")
	return &quizRepo{db: db, log: repoLog}
}

func (qr *quizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	for i, q := range quiz.Questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.QuizID = quiz.ID
		if q.Order == 0 {
			q.Order = i + 1
		}
	}
	if err := transaction.WithContext(ctx).Create(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func (qr *quizRepo) GetByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var result types.Quiz
	if err := transaction.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_order ASC")
		}).
		Where("id = ?", quizID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *quizRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID string, activeOnly bool) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	query := transaction.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_order ASC")
		}).
		Where("lesson_id = ?", lessonID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var results []*types.Quiz
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quizRepo) List(ctx context.Context, tx *gorm.DB, filter QuizListFilter) ([]*types.Quiz, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	query := transaction.WithContext(ctx).Model(&types.Quiz{})
	if filter.LessonID != "" {
		query = query.Where("lesson_id = ?", filter.LessonID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var results []*types.Quiz
	if err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_order ASC")
		}).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (qr *quizRepo) Update(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).Omit("Questions").Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func (qr *quizRepo) SetActive(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Quiz{}).
		Where("id = ?", quizID).
		Update("is_active", active).Error
}

func (qr *quizRepo) ReplaceQuestions(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, questions []*types.QuizQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&types.QuizQuestion{}).Error; err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	for i, q := range questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.QuizID = quizID
		if q.Order == 0 {
			q.Order = i + 1
		}
	}
	return transaction.WithContext(ctx).Create(&questions).Error
}

func (qr *quizRepo) Delete(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&types.QuizQuestion{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", quizID).
		Delete(&types.Quiz{}).Error
}
