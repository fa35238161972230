package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/plannr-dev/plannr/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue = 3900150 // #3b82f6, the default project color

	Username = "Plannr Reminders"
)

// SendDueTaskDigest posts today's due todos to the user's reminder webhook.
// Slack webhooks get a Slack attachment, anything else the Discord format.
func SendDueTaskDigest(webhookURL string, user models.User, todos []models.Todo) error {
	if strings.Contains(webhookURL, "hooks.slack.com") {
		return sendSlackDigest(webhookURL, user, todos)
	}

	return sendDiscordDigest(webhookURL, user, todos)
}

func sendDiscordDigest(webhookURL string, user models.User, todos []models.Todo) error {
	fields := make([]DiscordWebhookField, 0, len(todos))

	for _, todo := range todos {
		fields = append(fields, DiscordWebhookField{
			Name:   todo.Title,
			Value:  fmt.Sprintf("Priority: %s | Category: %s", todo.Priority, todo.Category),
			Inline: false,
		})
	}

	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "📋 Tasks due today",
				Description: fmt.Sprintf("You have %d task(s) due today.", len(todos)),
				Color:       ColorBlue,
				Fields:      fields,
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Plannr | %s", user.Name),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendSlackDigest(webhookURL string, user models.User, todos []models.Todo) error {
	fields := make([]SlackField, 0, len(todos))

	for _, todo := range todos {
		fields = append(fields, SlackField{
			Title: todo.Title,
			Value: fmt.Sprintf("Priority: %s | Category: %s", todo.Priority, todo.Category),
			Short: false,
		})
	}

	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":clipboard:",
		Text:      ":clipboard: *Tasks due today*",
		Attachments: []SlackAttachment{
			{
				Color:     "#3b82f6",
				Title:     fmt.Sprintf("%d task(s) due today", len(todos)),
				Text:      "Open Plannr to see your board.",
				Fields:    fields,
				Footer:    fmt.Sprintf("Plannr | %s", user.Name),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
