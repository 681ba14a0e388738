// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Each job wraps one command handler and passes it the current time.
//
// # Available Jobs
//
//  1. ScheduledOrderStartJob - every minute, starts preparing paid scheduled orders due within five minutes
//  2. AbandonedOrderCancelJob - hourly, cancels orders still pending an hour after creation
//  3. PointsExpiryJob - daily at 00:00, expires loyalty points past their expiry date
//
// # Usage
//
//	jobManager := jobs.NewJobManager(startHandler, cancelHandler, expireHandler, schedules, clock, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failures are logged and the job waits for its next tick. The handlers work
// order by order, so one bad row does not block the rest of a pass.
package jobs
