package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/output"
	"github.com/df07/go-raymarcher/pkg/renderer"
	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

// StreamMessage is one JSON message on the render WebSocket
type StreamMessage struct {
	Type      string `json:"type"` // "start", "rows", "frame", "error"
	RenderID  string `json:"renderId"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Y0        int    `json:"y0"`                  // rows messages: first row, counted from the top
	Y1        int    `json:"y1"`                  // rows messages: one past the last row
	RGB       []byte `json:"rgb,omitempty"`       // rows messages: quantized pixels, 3 bytes each
	ImageData string `json:"imageData,omitempty"` // frame message: base64 PNG
	Stats     *Stats `json:"stats,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleStream renders a frame and sends each finished band of rows over a
// WebSocket, followed by the whole frame. Closing the socket cancels the render.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// reader: the client sends nothing we act on, but a read error means it left
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	renderID := NewRenderID()
	pipeline, err := s.setupRenderingPipeline(req, NewWebLogger(renderID, nil))
	if err != nil {
		writeStreamMessage(conn, StreamMessage{Type: "error", RenderID: renderID, Error: err.Error()})
		return
	}

	if err := writeStreamMessage(conn, StreamMessage{Type: "start", RenderID: renderID, Width: req.Width, Height: req.Height}); err != nil {
		return
	}

	startTime := time.Now()
	frameChan, tileChan, errChan := pipeline.Raymarcher.RenderAsync(ctx, renderer.RenderOptions{TileUpdates: true})

	for tileResult := range tileChan {
		msg := StreamMessage{
			Type:     "rows",
			RenderID: renderID,
			Width:    req.Width,
			Y0:       tileResult.Tile.Bounds.Min.Y,
			Y1:       tileResult.Tile.Bounds.Max.Y,
			RGB:      packRGB(tileResult.Colors),
		}
		if err := writeStreamMessage(conn, msg); err != nil {
			cancel()
		}
	}

	if err := <-errChan; err != nil {
		writeStreamMessage(conn, StreamMessage{Type: "error", RenderID: renderID, Error: err.Error()})
		return
	}
	frame, ok := <-frameChan
	if !ok {
		return
	}

	img := renderer.ToImage(frame.Colors, req.Width, req.Height)
	imageData, err := imageToBase64PNG(img, req.Preview)
	if err != nil {
		writeStreamMessage(conn, StreamMessage{Type: "error", RenderID: renderID, Error: err.Error()})
		return
	}

	stats := statsFor(frame, startTime)
	writeStreamMessage(conn, StreamMessage{
		Type:      "frame",
		RenderID:  renderID,
		Width:     req.Width,
		Height:    req.Height,
		ImageData: imageData,
		Stats:     &stats,
	})
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "render complete"),
		time.Now().Add(streamWriteTimeout))
}

func writeStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}

// packRGB quantizes colors into consecutive R, G, B bytes
func packRGB(colors []core.Color) []byte {
	rgb := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		rgb = append(rgb, output.ConvertToByte(c.R), output.ConvertToByte(c.G), output.ConvertToByte(c.B))
	}
	return rgb
}
