package utils

import (
	"fmt"
	"log"
	"time"

	"ibuild/services/enrollment"

	"github.com/robfig/cron/v3"
)

// staleEnrollmentAge is how long an in-progress enrollment may sit without
// an update before the sweep marks it abandoned.
const staleEnrollmentAge = 90 * 24 * time.Hour

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[ENROLLMENT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartEnrollmentScheduler runs the daily stale-enrollment sweep. Completed
// enrollments are never touched; only IN_PROGRESS rows go stale.
func StartEnrollmentScheduler(svc *enrollment.Service) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@daily", func() {
		n, err := svc.AbandonStale(staleEnrollmentAge)
		if err != nil {
			logScheduler("Error sweeping stale enrollments: " + err.Error())
			return
		}
		if n > 0 {
			logScheduler(fmt.Sprintf("Marked %d stale enrollments as abandoned", n))
		}
	})
	if err != nil {
		log.Printf("Failed to register enrollment sweep: %v", err)
		return c
	}

	c.Start()
	logScheduler("Enrollment scheduler started")
	return c
}
