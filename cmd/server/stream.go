package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"portfolio-sim-lab/internal/observability"
	"portfolio-sim-lab/internal/projection"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Same-origin policy is the caller's concern; the service runs behind
	// internal ingress.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFrame is one year of percentile bands pushed over the socket.
type streamFrame struct {
	Type  string          `json:"type"`
	Age   int             `json:"age,omitempty"`
	Bands map[int]float64 `json:"bands,omitempty"`
	Error string          `json:"error,omitempty"`

	// Summary is attached to the final frame only.
	Summary *projection.MonteCarloProjection `json:"summary,omitempty"`
}

// handleSimulateStream upgrades to a WebSocket, reads one LifePlan message,
// runs the projection and streams the yearly bands frame by frame before a
// closing summary frame.
// GET /api/v1/simulate/stream
func (s *Server) handleSimulateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	observability.DefaultMetrics.StreamsActive.Inc()
	defer observability.DefaultMetrics.StreamsActive.Dec()

	var plan projection.LifePlan
	if err := conn.ReadJSON(&plan); err != nil {
		s.writeStreamError(conn, "invalid plan: "+err.Error())
		return
	}

	start := time.Now()
	proj, err := s.runner.RunMonteCarlo(plan)
	observability.RecordSimulation("stream", plan.NumPaths, time.Since(start).Seconds(), err)
	if err != nil {
		s.writeStreamError(conn, err.Error())
		return
	}
	s.countSimulation()

	for i, age := range proj.Ages {
		bands := make(map[int]float64, len(proj.Bands))
		for q, band := range proj.Bands {
			bands[q] = band[i]
		}
		if err := s.writeStreamFrame(conn, streamFrame{Type: "band", Age: age, Bands: bands}); err != nil {
			s.logger.Printf("stream write failed at age %d: %v", age, err)
			return
		}
	}

	if err := s.writeStreamFrame(conn, streamFrame{Type: "summary", Summary: proj}); err != nil {
		s.logger.Printf("stream summary write failed: %v", err)
		return
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(streamWriteTimeout))
}

func (s *Server) writeStreamFrame(conn *websocket.Conn, frame streamFrame) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		return err
	}
	observability.DefaultMetrics.StreamFramesSent.Inc()
	return nil
}

func (s *Server) writeStreamError(conn *websocket.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	conn.WriteJSON(streamFrame{Type: "error", Error: msg})
}
