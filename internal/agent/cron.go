package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noemalabs/noema/internal/cron"
	"github.com/noemalabs/noema/internal/logger"
	"github.com/noemalabs/noema/pkg/noemamem"
)

// CronRunner checks for due reminders and triggers the agent loop
type CronRunner struct {
	reminders *cron.Store
	memory    *noemamem.Store
	trigger   TriggerFunc
	notify    NotifyFunc
	timezone  *time.Location
}

func NewCronRunner(reminders *cron.Store, memory *noemamem.Store, trigger TriggerFunc, notify NotifyFunc, tz *time.Location) *CronRunner {
	return &CronRunner{
		reminders: reminders,
		memory:    memory,
		trigger:   trigger,
		notify:    notify,
		timezone:  tz,
	}
}

// Run starts the reminder checker loop
func (r *CronRunner) Run(ctx context.Context) {
	// check every 10 seconds to support sub-minute schedules
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	// initial check after short delay
	time.Sleep(5 * time.Second)
	r.checkDue(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("cron runner stopping")
			return
		case <-ticker.C:
			r.checkDue(ctx)
		}
	}
}

func (r *CronRunner) checkDue(ctx context.Context) {
	deleted, err := r.reminders.DeleteExpired()
	if err != nil {
		logger.Error("failed to delete expired reminders", "error", err)
	} else if deleted > 0 {
		logger.Info("expired reminders deleted", "count", deleted)
	}

	due, err := r.reminders.GetDue()
	if err != nil {
		logger.Error("failed to get due reminders", "error", err)
		return
	}

	for _, reminder := range due {
		r.fire(ctx, reminder)
	}
}

func (r *CronRunner) fire(ctx context.Context, reminder cron.Reminder) {
	// recall whatever the reminder was set against
	result, err := r.memory.Recall(ctx, reminder.Query, 10)
	if err != nil {
		logger.Error("reminder recall failed", "query", reminder.Query, "error", err)
		return
	}

	var recalled strings.Builder
	for _, e := range result.Entries {
		fmt.Fprintf(&recalled, "- [%s] %s\n", e.Mode, e.Thought)
	}
	for _, a := range result.Neurons {
		fmt.Fprintf(&recalled, "- concept: %s (energy %.2f)\n", a.Neuron.Label, a.Energy)
	}
	if recalled.Len() == 0 {
		recalled.WriteString("(nothing recalled)")
	}

	currentTime := time.Now().In(r.timezone).Format("Monday, January 2, 2006 3:04 PM")

	prompt := fmt.Sprintf(`[SCHEDULED REMINDER]
Query: %s
Current time: %s

Recalled context:
%s
This is a reminder you set up earlier. Act on it: follow up on the recalled
thoughts, check any pending next actions, and report briefly. The user will
see your message.`, reminder.Query, currentTime, recalled.String())

	sessionID := fmt.Sprintf("telegram:%d", reminder.ChatID)
	response, err := r.trigger(reminder.ChatID, sessionID, prompt)
	if err != nil {
		logger.Error("reminder trigger failed", "query", reminder.Query, "error", err)
		// still update next_run so we don't keep failing
	} else {
		if r.notify != nil && response != "" {
			r.notify(reminder.ChatID, response)
		}
		logger.Debug("reminder fired", "query", reminder.Query, "chat", reminder.ChatID)
	}

	nextRun, err := cron.ComputeNextRun(reminder.Schedule)
	if err != nil {
		logger.Error("failed to compute next run", "schedule", reminder.Schedule, "error", err)
		return
	}

	if err := r.reminders.UpdateNextRun(reminder.ID, nextRun); err != nil {
		logger.Error("failed to update reminder next_run", "id", reminder.ID, "error", err)
	}

	logger.Debug("reminder rescheduled", "query", reminder.Query, "next", nextRun)
}
