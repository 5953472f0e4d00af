package cron

import (
	"log"

	"github.com/aonuma/project-management-api/internal/services"
	"github.com/robfig/cron/v3"
)

// cleanupSchedule runs at midnight every day.
const cleanupSchedule = "0 0 * * *"

// ScheduleCleanup starts the daily job that deletes all tasks with status
// "done". The job runs independently of request handling; failures are logged
// and never retried.
func ScheduleCleanup(taskService *services.TaskService) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(cleanupSchedule, func() {
		count, err := taskService.CleanupDoneTasks()
		if err != nil {
			log.Printf("Task cleanup failed: %v", err)
			return
		}
		log.Printf("Task cleanup deleted %d done tasks", count)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
