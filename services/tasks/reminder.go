// Package tasks schedules background work over the Redis-backed task queue.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"washbot/config"
	"washbot/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentReminder = "reminder:appointment"

// reminderLead is how long before the appointment the reminder fires.
const reminderLead = time.Hour

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues reminders ahead of booked appointments.
type Scheduler struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	return &Scheduler{client: client, logger: logger}
}

func (s *Scheduler) Close() error {
	return s.client.Close()
}

// ScheduleAppointmentReminder enqueues a reminder one hour before the booked
// slot. Appointments already inside the lead window fire immediately.
func (s *Scheduler) ScheduleAppointmentReminder(payload models.ReminderPayload) error {
	at, err := appointmentTime(payload.Date, payload.Time)
	if err != nil {
		return fmt.Errorf("parse appointment time: %w", err)
	}
	fireAt := at.Add(-reminderLead)

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	s.logger.Info("reminder scheduled",
		zap.String("userId", payload.UserID),
		zap.String("date", payload.Date),
		zap.String("time", payload.Time),
		zap.Time("fireAt", fireAt))
	return nil
}

// appointmentTime combines an ISO date and a canonical slot label into a
// local timestamp.
func appointmentTime(date, label string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 3:04 PM", date+" "+label, time.Local)
}
