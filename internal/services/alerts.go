package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	AlertReasonMultipleEpisodes = "multiple_episodes"
	AlertReasonLongEpisode      = "long_episode"
	AlertReasonStudentBreak     = "student_break"
)

type AlertTemplate struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// AlertTemplates holds the notification copy for low-attention alerts, keyed
// by reason. Loaded once at startup from configs/alerts.yaml.
type AlertTemplates struct {
	Reasons map[string]AlertTemplate `yaml:"reasons"`
}

func LoadAlertTemplates(path string) (*AlertTemplates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alert templates: %w", err)
	}
	var templates AlertTemplates
	if err := yaml.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("parse alert templates: %w", err)
	}
	for _, reason := range []string{AlertReasonMultipleEpisodes, AlertReasonLongEpisode, AlertReasonStudentBreak} {
		if _, ok := templates.Reasons[reason]; !ok {
			return nil, fmt.Errorf("alert templates missing reason %q", reason)
		}
	}
	return &templates, nil
}

func ValidAlertReason(reason string) bool {
	switch reason {
	case AlertReasonMultipleEpisodes, AlertReasonLongEpisode, AlertReasonStudentBreak:
		return true
	}
	return false
}

// Render substitutes {student} in the template for the given reason.
func (t *AlertTemplates) Render(reason, studentName string) (string, string) {
	tpl := t.Reasons[reason]
	title := strings.ReplaceAll(tpl.Title, "{student}", studentName)
	message := strings.ReplaceAll(tpl.Message, "{student}", studentName)
	return title, message
}
