package http

import (
	"time"

	"github.com/azkar-hub/azkar-hub/internal/application/command"
	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

type completeRequest struct {
	CompletedCount *int `json:"completed_count"`
}

type askRequest struct {
	Question string `json:"question"`
}

type reminderRequest struct {
	TimeOfDay string `json:"time_of_day"`
	UserStats struct {
		Streak           int     `json:"streak"`
		CompletionRate   float64 `json:"completion_rate"`
		FavoriteCategory string  `json:"favorite_category"`
	} `json:"user_stats"`
}

type explainRequest struct {
	ZikrText string `json:"zikr_text"`
	Level    string `json:"level"`
}

type feedbackRequest struct {
	Helpful *bool `json:"helpful"`
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE BODIES
// ══════════════════════════════════════════════════════════════════════════════

type zikrDTO struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation,omitempty"`
	Meaning     string    `json:"meaning,omitempty"`
	Category    string    `json:"category"`
	Repetitions int       `json:"repetitions"`
	Source      string    `json:"source,omitempty"`
	Benefits    []string  `json:"benefits"`
	AudioURL    string    `json:"audio_url,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

func toZikrDTO(z *azkar.Zikr) zikrDTO {
	benefits := z.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	return zikrDTO{
		ID:          z.ID.String(),
		Text:        z.Text,
		Translation: z.Translation,
		Meaning:     z.Meaning,
		Category:    string(z.Category),
		Repetitions: z.Repetitions,
		Source:      z.Source,
		Benefits:    benefits,
		AudioURL:    z.AudioURL,
		Order:       z.Order,
		CreatedAt:   z.CreatedAt,
	}
}

func toZikrDTOs(items []*azkar.Zikr) []zikrDTO {
	out := make([]zikrDTO, 0, len(items))
	for _, z := range items {
		out = append(out, toZikrDTO(z))
	}
	return out
}

type progressDTO struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	AzkarID          string     `json:"azkar_id"`
	CompletedCount   int        `json:"completed_count"`
	LastCompleted    *time.Time `json:"last_completed,omitempty"`
	Streak           int        `json:"streak"`
	TotalCompletions int        `json:"total_completions"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toProgressDTO(r *progress.Record) progressDTO {
	dto := progressDTO{
		ID:               r.ID,
		UserID:           r.UserID.String(),
		AzkarID:          r.ZikrID.String(),
		CompletedCount:   r.CompletedCount,
		Streak:           r.Streak,
		TotalCompletions: r.TotalCompletions,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if !r.LastCompletedAt.IsZero() {
		t := r.LastCompletedAt
		dto.LastCompleted = &t
	}
	return dto
}

type dailyDTO struct {
	ID                  string `json:"id"`
	UserID              string `json:"user_id"`
	Date                string `json:"date"`
	MorningCompleted    bool   `json:"morning_completed"`
	EveningCompleted    bool   `json:"evening_completed"`
	TotalAzkarCompleted int    `json:"total_azkar_completed"`
	TimeSpent           int    `json:"time_spent"`
	Streak              int    `json:"streak"`
}

func toDailyDTO(d *progress.DailySummary) dailyDTO {
	return dailyDTO{
		ID:                  d.ID,
		UserID:              d.UserID.String(),
		Date:                d.Date,
		MorningCompleted:    d.MorningCompleted,
		EveningCompleted:    d.EveningCompleted,
		TotalAzkarCompleted: d.TotalAzkarCompleted,
		TimeSpent:           d.TimeSpent,
		Streak:              d.Streak,
	}
}

type completionDTO struct {
	Success  bool         `json:"success"`
	Created  bool         `json:"created"`
	Progress *progressDTO `json:"progress,omitempty"`
	Daily    *dailyDTO    `json:"daily,omitempty"`
}

func toCompletionDTO(res *command.RecordCompletionResult) completionDTO {
	out := completionDTO{Success: res.Success, Created: res.Created}
	if res.Record != nil {
		p := toProgressDTO(res.Record)
		out.Progress = &p
	}
	if res.Daily != nil {
		d := toDailyDTO(res.Daily)
		out.Daily = &d
	}
	return out
}

type askResponse struct {
	Answer     string `json:"answer"`
	Success    bool   `json:"success"`
	QuestionID string `json:"question_id,omitempty"`
}
