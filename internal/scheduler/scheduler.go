package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/plannr-dev/plannr/db"
	"github.com/plannr-dev/plannr/internal/handlers"
	"github.com/plannr-dev/plannr/internal/models"
	"github.com/plannr-dev/plannr/internal/services"
)

// Scheduler periodically scans for todos due today and reminds their owners,
// through the board websocket and an optional per-user webhook. A todo is
// reminded at most once per calendar day.
type Scheduler struct {
	interval time.Duration
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the reminder scan loop with an immediate first pass.
func (s *Scheduler) Start() {
	log.Printf("Starting reminder scheduler (interval %s)", s.interval)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.scan()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.scan()
			}
		}
	}()
}

// Stop gracefully shuts down the scan loop
func (s *Scheduler) Stop() {
	log.Println("Stopping reminder scheduler...")
	s.cancel()
	s.wg.Wait()
	log.Println("Reminder scheduler stopped")
}

// scan runs one reminder pass over all users with task reminders enabled.
func (s *Scheduler) scan() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []models.User

	if err := db.DB.Find(&users).Error; err != nil {
		log.Printf("Reminder scan failed to load users: %v", err)
		return
	}

	for _, user := range users {
		prefs := user.Prefs()

		if !prefs.TaskReminders {
			continue
		}

		s.remindUser(user, prefs)
	}
}

func (s *Scheduler) remindUser(user models.User, prefs models.Preferences) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var due []models.Todo

	err := db.DB.
		Where("user_id = ? AND status <> ? AND due_date >= ? AND due_date < ?",
			user.ID, models.StatusCompleted, today, tomorrow).
		Find(&due).Error

	if err != nil {
		log.Printf("Reminder scan failed for user %d: %v", user.ID, err)
		return
	}

	pending := make([]models.Todo, 0, len(due))

	for _, todo := range due {
		var already int64

		err := db.DB.Model(&models.Reminder{}).
			Where("todo_id = ? AND sent_at >= ?", todo.ID, today).
			Count(&already).Error

		if err != nil {
			log.Printf("Failed to check reminder history for todo %d: %v", todo.ID, err)
			continue
		}

		if already == 0 {
			pending = append(pending, todo)
		}
	}

	if len(pending) == 0 {
		return
	}

	sentAt := time.Now()

	for _, todo := range pending {
		s.recordReminder(user.ID, todo, models.ReminderChannelBoard, models.ReminderSent, sentAt)
	}

	handlers.BroadcastRefresh(user.ID)

	if prefs.ReminderWebhook != "" {
		status := models.ReminderSent

		if err := services.SendDueTaskDigest(prefs.ReminderWebhook, user, pending); err != nil {
			log.Printf("Webhook reminder for user %d failed: %v", user.ID, err)
			status = models.ReminderFailed
		}

		for _, todo := range pending {
			s.recordReminder(user.ID, todo, models.ReminderChannelWebhook, status, sentAt)
		}
	}

	log.Printf("Reminded user %d about %d due todos", user.ID, len(pending))
}

func (s *Scheduler) recordReminder(userID uint, todo models.Todo, channel, status string, sentAt time.Time) {
	reminder := models.Reminder{
		UserID:  userID,
		TodoID:  todo.ID,
		Channel: channel,
		Status:  status,
		Message: fmt.Sprintf("%q is due today", todo.Title),
		SentAt:  &sentAt,
	}

	if err := db.DB.Create(&reminder).Error; err != nil {
		log.Printf("Failed to store reminder for todo %d: %v", todo.ID, err)
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler
func Initialize(interval time.Duration) {
	globalScheduler = NewScheduler(interval)
	globalScheduler.Start()
}

// Shutdown stops the global scheduler
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}
