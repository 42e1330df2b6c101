package realtime

import (
	"net/http"
	"time"

	"fieldservice/internal/core/domain/model/kernel"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// ServeWebSocket upgrades the request and streams the events of jobID until
// the client goes away. It blocks for the lifetime of the connection.
func (h *Hub) ServeWebSocket(w http.ResponseWriter, r *http.Request, jobID kernel.UUID) error {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := h.Subscribe(jobID)
	defer sub.Close()

	// The client only sends control frames; reading detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := wsutil.ReadClientData(conn); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return nil
		case <-gone:
			return nil
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := wsutil.WriteServerMessage(conn, ws.OpPing, nil); err != nil {
				return nil
			}
		case msg, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := wsutil.WriteServerText(conn, msg); err != nil {
				h.logger.Debug("websocket write failed", "job_id", jobID.String(), "error", err)
				return nil
			}
		}
	}
}
