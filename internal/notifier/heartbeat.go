package notifier

import "github.com/sirupsen/logrus"

// SweepHeartbeats writes a heartbeat event to every registered connection and
// evicts the ones that fail. Transports behind idle reverse proxies can die
// without a TCP close; the failed write is the only signal. One dead
// connection never stops the sweep over the rest.
func (d *Dispatcher) SweepHeartbeats() {
	d.registry.ForEach(func(userID string, conn *Connection) {
		if err := conn.Send(EventHeartbeat, "ping"); err != nil {
			logrus.WithField("userID", userID).Info("Heartbeat failed, removing connection")
			d.registry.Remove(userID, conn)
			conn.Close()
			return
		}
		logrus.WithField("userID", userID).Debug("Heartbeat sent")
	})
}
