package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/types"
)

func attentionEvent(ts time.Time, score float64) *types.Event {
	s := score
	return &types.Event{
		ID:             uuid.New(),
		TS:             ts,
		Type:           types.EventTypeAttention,
		AttentionScore: &s,
	}
}

func emotionEvent(ts time.Time, label string) *types.Event {
	return &types.Event{
		ID:           uuid.New(),
		TS:           ts,
		Type:         types.EventTypeEmotion,
		EmotionLabel: label,
	}
}

func TestSummarizeDailyThresholds(t *testing.T) {
	day := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	events := []*types.Event{
		attentionEvent(day, 0.2),
		attentionEvent(day.Add(time.Minute), 0.5),
		attentionEvent(day.Add(2*time.Minute), 0.8),
		attentionEvent(day.Add(3*time.Minute), 0.9),
	}

	summaries := summarizeDaily(events, time.UTC)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 day, got %d", len(summaries))
	}
	a := summaries[0].Attention
	if a.Samples != 4 {
		t.Fatalf("samples = %d, want 4", a.Samples)
	}
	if a.Low != 1 || a.Medium != 1 || a.High != 2 {
		t.Fatalf("buckets = %d/%d/%d, want 1/1/2", a.Low, a.Medium, a.High)
	}
	if a.AvgScore != 0.6 {
		t.Fatalf("avg = %v, want 0.6", a.AvgScore)
	}
	if a.MinScore != 0.2 || a.MaxScore != 0.9 {
		t.Fatalf("min/max = %v/%v, want 0.2/0.9", a.MinScore, a.MaxScore)
	}
	if a.LowPct != 0.25 || a.MediumPct != 0.25 || a.HighPct != 0.5 {
		t.Fatalf("pcts = %v/%v/%v, want 0.25/0.25/0.5", a.LowPct, a.MediumPct, a.HighPct)
	}
}

func TestSummarizeDailyBucketBoundaries(t *testing.T) {
	day := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	// 0.4 is medium, 0.7 is high
	events := []*types.Event{
		attentionEvent(day, 0.4),
		attentionEvent(day.Add(time.Minute), 0.7),
	}
	summaries := summarizeDaily(events, time.UTC)
	a := summaries[0].Attention
	if a.Low != 0 || a.Medium != 1 || a.High != 1 {
		t.Fatalf("buckets = %d/%d/%d, want 0/1/1", a.Low, a.Medium, a.High)
	}
}

func TestSummarizeDailyNoSamples(t *testing.T) {
	day := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	events := []*types.Event{
		emotionEvent(day, "happy"),
		emotionEvent(day.Add(time.Minute), "happy"),
		emotionEvent(day.Add(2*time.Minute), "sad"),
	}

	summaries := summarizeDaily(events, time.UTC)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 day, got %d", len(summaries))
	}
	a := summaries[0].Attention
	if a.Samples != 0 || a.AvgScore != 0 || a.MinScore != 0 || a.MaxScore != 0 ||
		a.LowPct != 0 || a.MediumPct != 0 || a.HighPct != 0 {
		t.Fatalf("expected zeroed attention summary, got %+v", a)
	}

	emotions := summaries[0].Emotions
	if len(emotions) != len(types.EmotionLabels) {
		t.Fatalf("expected all %d emotion keys, got %d", len(types.EmotionLabels), len(emotions))
	}
	if emotions["happy"] != 2 || emotions["sad"] != 1 {
		t.Fatalf("unexpected emotion counts: %+v", emotions)
	}
	if emotions["disgust"] != 0 {
		t.Fatalf("absent label should be present with zero, got %d", emotions["disgust"])
	}
}

func TestSummarizeDailyTimezoneBucketing(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 03:00 UTC on the 11th is still the evening of the 10th in New York.
	lateEvening := time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC)
	morning := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	events := []*types.Event{
		attentionEvent(morning, 0.9),
		attentionEvent(lateEvening, 0.5),
	}

	summaries := summarizeDaily(events, ny)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 days, got %d", len(summaries))
	}
	if summaries[0].Date != "2025-03-10" || summaries[1].Date != "2025-03-11" {
		t.Fatalf("expected days ascending 2025-03-10, 2025-03-11; got %s, %s",
			summaries[0].Date, summaries[1].Date)
	}

	utcSummaries := summarizeDaily(events, time.UTC)
	if len(utcSummaries) != 1 {
		t.Fatalf("expected a single UTC day, got %d", len(utcSummaries))
	}
}

func TestSummarizeDailyEmptyInput(t *testing.T) {
	summaries := summarizeDaily(nil, time.UTC)
	if len(summaries) != 0 {
		t.Fatalf("expected no days for no events, got %d", len(summaries))
	}
}
