package notifier

import "github.com/sirupsen/logrus"

// Shutdown tells every live connection that the process is stopping, then
// removes and closes all of them. Each write is bounded by the connection's
// send timeout; write failures are logged and ignored.
func (d *Dispatcher) Shutdown() {
	logrus.Info("Shutting down notifier, closing all stream connections")

	d.registry.ForEach(func(userID string, conn *Connection) {
		if err := conn.Send(EventShutdown, "Server shutting down"); err != nil {
			logrus.WithFields(logrus.Fields{
				"userID": userID,
				"error":  err,
			}).Warn("Failed to send shutdown notice")
		}
		d.registry.Remove(userID, conn)
		conn.Close()
	})
}
