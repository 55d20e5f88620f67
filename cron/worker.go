// Package cron runs the background reminder worker.
package cron

import (
	"context"
	"encoding/json"
	"time"

	"washbot/config"
	"washbot/models"
	"washbot/services/tasks"
	"washbot/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderNotifier delivers a reminder to a live client session. Delivered
// reports false when the session is no longer connected.
type ReminderNotifier interface {
	NotifyReminder(payload models.ReminderPayload) (delivered bool)
}

// InitReminderWorker runs the async worker in background until ctx is
// cancelled.
func InitReminderWorker(ctx context.Context, notifier ReminderNotifier) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, handleReminderTask(notifier))

	// Start Redis health monitor
	go monitorRedisConnection(ctx)

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	// Start async worker with retry logic
	go func() {
		logger := utils.GetLogger()
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("reminder worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("reminder worker exhausted retries")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifier ReminderNotifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		if notifier.NotifyReminder(p) {
			logger.Info("reminder delivered",
				zap.String("sessionId", p.SessionID), zap.String("userId", p.UserID),
				zap.String("date", p.Date), zap.String("time", p.Time))
			return nil
		}

		// The session is gone; there is nowhere to deliver to, so the task
		// completes rather than retrying forever.
		logger.Warn("reminder session disconnected, dropping",
			zap.String("sessionId", p.SessionID), zap.String("userId", p.UserID))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at
// runtime. Returns when ctx is cancelled.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("redis connection lost", zap.Error(err))
			}
		}
	}
}
