package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

const (
	attentionLowThreshold  = 0.4
	attentionHighThreshold = 0.7
)

type AttentionSummary struct {
	Samples   int     `json:"samples"`
	AvgScore  float64 `json:"avg_score"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`
	Low       int     `json:"low"`
	Medium    int     `json:"medium"`
	High      int     `json:"high"`
	LowPct    float64 `json:"low_pct"`
	MediumPct float64 `json:"medium_pct"`
	HighPct   float64 `json:"high_pct"`
}

type DaySummary struct {
	Date      string           `json:"date"`
	Attention AttentionSummary `json:"attention"`
	Emotions  map[string]int   `json:"emotions"`
}

type SessionReport struct {
	Session    *types.Session   `json:"session"`
	Attention  AttentionSummary `json:"attention"`
	Emotions   map[string]int   `json:"emotions"`
	EventCount int              `json:"event_count"`
}

type StudentRollup struct {
	Student          *types.User `json:"student"`
	SessionCount     int         `json:"session_count"`
	LastSessionAt    *time.Time  `json:"last_session_at,omitempty"`
	LessonsStarted   int         `json:"lessons_started"`
	LessonsCompleted int         `json:"lessons_completed"`
	AvgPercent       float64     `json:"avg_percent"`
}

type ReportService interface {
	// DailySummary buckets a learner's telemetry by calendar day in the
	// caller's timezone (UTC when tz is empty), days ascending.
	DailySummary(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID, from, to time.Time, tz string) ([]DaySummary, error)
	SessionReport(ctx context.Context, viewer requestdata.RequestData, sessionID uuid.UUID) (*SessionReport, error)
	TeacherStudents(ctx context.Context) ([]*StudentRollup, error)
}

type reportService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.SessionRepo
	eventRepo    repos.EventRepo
	progressRepo repos.ProgressRepo
	userRepo     repos.UserRepo
	access       AccessService
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.SessionRepo,
	eventRepo repos.EventRepo,
	progressRepo repos.ProgressRepo,
	userRepo repos.UserRepo,
	access AccessService,
) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		db:           db,
		log:          serviceLog,
		sessionRepo:  sessionRepo,
		eventRepo:    eventRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		access:       access,
	}
}

func (rs *reportService) DailySummary(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID, from, to time.Time, tz string) ([]DaySummary, error) {
	if _, err := rs.userRepo.GetByID(ctx, nil, userID); err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Internal(err)
	}
	if err := rs.access.CanViewLearner(ctx, viewer, userID); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, apierr.Validation("to must be after from")
	}

	loc := time.UTC
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, apierr.Validation("unknown timezone %q", tz)
		}
	}

	sessions, err := rs.sessionRepo.ListOverlapping(ctx, nil, userID, from, to)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
	}

	events, err := rs.eventRepo.ListForSessions(ctx, nil, sessionIDs, from, to)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return summarizeDaily(events, loc), nil
}

func (rs *reportService) SessionReport(ctx context.Context, viewer requestdata.RequestData, sessionID uuid.UUID) (*SessionReport, error) {
	session, err := rs.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("session not found")
		}
		return nil, apierr.Internal(err)
	}
	if err := rs.access.CanViewLearner(ctx, viewer, session.UserID); err != nil {
		return nil, err
	}

	events, err := rs.eventRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	attention, emotions := summarizeEvents(events)
	return &SessionReport{
		Session:    session,
		Attention:  attention,
		Emotions:   emotions,
		EventCount: len(events),
	}, nil
}

func (rs *reportService) TeacherStudents(ctx context.Context) ([]*StudentRollup, error) {
	students, err := rs.userRepo.ListByRole(ctx, nil, types.RoleStudent, false)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	ids := make([]uuid.UUID, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}

	var (
		sessions []*types.Session
		progress []*types.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = rs.sessionRepo.ListByUsers(gctx, nil, ids)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = rs.progressRepo.ListByUsers(gctx, nil, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.Internal(err)
	}

	sessionsByUser := map[uuid.UUID][]*types.Session{}
	for _, s := range sessions {
		sessionsByUser[s.UserID] = append(sessionsByUser[s.UserID], s)
	}
	progressByUser := map[uuid.UUID][]*types.Progress{}
	for _, p := range progress {
		progressByUser[p.UserID] = append(progressByUser[p.UserID], p)
	}

	rollups := make([]*StudentRollup, 0, len(students))
	for _, student := range students {
		rollup := &StudentRollup{Student: student}
		for _, s := range sessionsByUser[student.ID] {
			rollup.SessionCount++
			if rollup.LastSessionAt == nil || s.StartedAt.After(*rollup.LastSessionAt) {
				at := s.StartedAt
				rollup.LastSessionAt = &at
			}
		}
		rows := progressByUser[student.ID]
		sum := 0
		for _, p := range rows {
			rollup.LessonsStarted++
			if p.Completed {
				rollup.LessonsCompleted++
			}
			sum += p.Percent
		}
		if len(rows) > 0 {
			rollup.AvgPercent = math.Round(float64(sum)/float64(len(rows))*10) / 10
		}
		rollups = append(rollups, rollup)
	}
	return rollups, nil
}

// summarizeDaily groups events into calendar-day buckets in loc and rolls up
// attention and emotion stats per day, days ascending. Every emotion label
// gets a key even when its count is zero.
func summarizeDaily(events []*types.Event, loc *time.Location) []DaySummary {
	byDay := map[string][]*types.Event{}
	for _, e := range events {
		day := e.TS.In(loc).Format("2006-01-02")
		byDay[day] = append(byDay[day], e)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]DaySummary, 0, len(days))
	for _, day := range days {
		attention, emotions := summarizeEvents(byDay[day])
		summaries = append(summaries, DaySummary{
			Date:      day,
			Attention: attention,
			Emotions:  emotions,
		})
	}
	return summaries
}

func summarizeEvents(events []*types.Event) (AttentionSummary, map[string]int) {
	emotions := make(map[string]int, len(types.EmotionLabels))
	for _, label := range types.EmotionLabels {
		emotions[label] = 0
	}

	var attention AttentionSummary
	sum := 0.0
	minScore, maxScore := 0.0, 0.0
	for _, e := range events {
		switch e.Type {
		case types.EventTypeAttention:
			if e.AttentionScore == nil {
				continue
			}
			score := *e.AttentionScore
			if attention.Samples == 0 || score < minScore {
				minScore = score
			}
			if attention.Samples == 0 || score > maxScore {
				maxScore = score
			}
			attention.Samples++
			sum += score
			switch {
			case score < attentionLowThreshold:
				attention.Low++
			case score < attentionHighThreshold:
				attention.Medium++
			default:
				attention.High++
			}
		case types.EventTypeEmotion:
			if _, known := emotions[e.EmotionLabel]; known {
				emotions[e.EmotionLabel]++
			}
		}
	}

	if attention.Samples > 0 {
		n := float64(attention.Samples)
		attention.AvgScore = round3(sum / n)
		attention.MinScore = round3(minScore)
		attention.MaxScore = round3(maxScore)
		attention.LowPct = round3(float64(attention.Low) / n)
		attention.MediumPct = round3(float64(attention.Medium) / n)
		attention.HighPct = round3(float64(attention.High) / n)
	}
	return attention, emotions
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
