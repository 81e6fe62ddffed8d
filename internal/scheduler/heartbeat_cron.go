package cron

import (
	"github.com/nuricanozturk01/setupshowroom-public/internal/notifier"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartHeartbeatJob proves liveness of every stream connection on a fixed
// period for the lifetime of the process. The returned cron is stopped by the
// shutdown path in main.
func StartHeartbeatJob(dispatcher *notifier.Dispatcher) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@every 30s", dispatcher.SweepHeartbeats); err != nil {
		logrus.WithError(err).Error("Failed to schedule heartbeat sweep")
	}

	c.Start()
	return c
}
