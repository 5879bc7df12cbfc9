package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/output"
	"github.com/df07/go-raymarcher/pkg/renderer"
)

// StartUpdate announces a render before any pixels arrive
type StartUpdate struct {
	RenderID   string `json:"renderId"`
	Scene      string `json:"scene"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	TotalTiles int    `json:"totalTiles"`
}

// TileUpdate represents a finished band of rows sent via SSE
type TileUpdate struct {
	Y0         int    `json:"y0"`         // First row, counted from the top
	Y1         int    `json:"y1"`         // One past the last row
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this band
	TileNumber int    `json:"tileNumber"` // Tiles completed so far (1-based)
	TotalTiles int    `json:"totalTiles"`
}

// PassUpdate carries the finished frame
type PassUpdate struct {
	RenderID  string `json:"renderId"`
	ImageData string `json:"imageData"` // Base64 encoded PNG, downscaled when a preview was requested
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	Published string `json:"published,omitempty"` // Object key when the frame was uploaded
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "start", "console", "tile", "pass", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raymarcher
type RenderingPipeline struct {
	Raymarcher *renderer.ParallelRaymarcher
	TotalTiles int
}

// handleRender renders a frame and streams its bands, console output and
// the final image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Only this goroutine sends; the writer owns the ResponseWriter
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go s.writeSSEEvents(w, ctx, sseEventChan, writerDone)
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := NewRenderID()
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(renderID, consoleChan)

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	s.sendJSON(ctx, sseEventChan, "start", StartUpdate{
		RenderID:   renderID,
		Scene:      req.Scene,
		Width:      req.Width,
		Height:     req.Height,
		TotalTiles: pipeline.TotalTiles,
	})

	startTime := time.Now()
	frameChan, tileChan, errChan := pipeline.Raymarcher.RenderAsync(ctx, renderer.RenderOptions{TileUpdates: true})

	s.handleRenderingEvents(ctx, sseEventChan, consoleChan, frameChan, tileChan, errChan, req, renderID, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes every event in a single goroutine until the channel
// is closed or the client goes away
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// setupRenderingPipeline creates the scene and raymarcher for a request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to create scene: %v", err)
	}

	parallel := renderer.ParallelConfig{
		TileHeight: DefaultTileHeight,
		NumWorkers: req.Workers,
	}
	raymarcher := renderer.NewParallelRaymarcher(sceneObj, req.renderConfig(), parallel, logger)

	return &RenderingPipeline{
		Raymarcher: raymarcher,
		TotalTiles: len(renderer.NewTileGrid(req.Width, req.Height, DefaultTileHeight)),
	}, nil
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent, consoleChan <-chan ConsoleMessage,
	frameChan <-chan renderer.FrameResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	req *RenderRequest, renderID string, startTime time.Time) {

	var frame *renderer.FrameResult
	var renderErr error

	for frameChan != nil || tileChan != nil || errChan != nil {
		select {
		case msg := <-consoleChan:
			s.sendJSON(ctx, sseEventChan, "console", msg)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil // Channel closed
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult, req.Width)

		case result, ok := <-frameChan:
			if !ok {
				frameChan = nil
				continue
			}
			frame = &result

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			renderErr = err

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}

	// Flush console output logged before the channels closed
	for drained := false; !drained; {
		select {
		case msg := <-consoleChan:
			s.sendJSON(ctx, sseEventChan, "console", msg)
		default:
			drained = true
		}
	}

	if renderErr != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", renderErr))
		return
	}
	if frame == nil {
		return
	}

	s.handlePassComplete(ctx, sseEventChan, *frame, req, renderID, startTime)

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handlePassComplete sends the finished frame, publishing it first if requested
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, frame renderer.FrameResult,
	req *RenderRequest, renderID string, startTime time.Time) {

	img := renderer.ToImage(frame.Colors, req.Width, req.Height)
	imageData, err := imageToBase64PNG(img, req.Preview)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	update := PassUpdate{
		RenderID:  renderID,
		ImageData: imageData,
		Width:     req.Width,
		Height:    req.Height,
		Stats:     statsFor(frame, startTime),
	}

	if req.Publish {
		key, err := s.publishFrame(ctx, frame, req, renderID)
		if err != nil {
			log.Printf("Publish failed for %s: %v", renderID, err)
			s.sendJSON(ctx, sseEventChan, "console", ConsoleMessage{
				RenderID:  renderID,
				Message:   fmt.Sprintf("Error publishing frame: %v\n", err),
				Timestamp: time.Now(),
				Level:     "error",
			})
		}
		update.Published = key
	}

	s.sendJSON(ctx, sseEventChan, "pass", update)
}

// publishFrame uploads the full-size PNG of a frame
func (s *Server) publishFrame(ctx context.Context, frame renderer.FrameResult, req *RenderRequest, renderID string) (string, error) {
	if s.publisher == nil {
		return "", fmt.Errorf("publishing is not configured")
	}
	data, err := output.EncodeBytes(output.FormatPNG, req.Width, req.Height, frame.Colors)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s/%s.png", strings.ReplaceAll(req.Scene, ":", "-"), renderID)
	return s.publisher.Publish(ctx, name, data, output.FormatPNG.ContentType())
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult, width int) {
	bounds := tileResult.Tile.Bounds
	tileData, err := imageToBase64PNG(renderer.ToImage(tileResult.Colors, width, bounds.Dy()), 0)
	if err != nil {
		log.Printf("Error encoding tile %d: %v", tileResult.Tile.ID, err)
		return
	}

	s.sendJSON(ctx, sseEventChan, "tile", TileUpdate{
		Y0:         bounds.Min.Y,
		Y1:         bounds.Max.Y,
		ImageData:  tileData,
		TileNumber: tileResult.TileNumber,
		TotalTiles: tileResult.TotalTiles,
	})
}

// sendJSON marshals payload into an event of the given type
func (s *Server) sendJSON(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

func statsFor(frame renderer.FrameResult, startTime time.Time) Stats {
	return Stats{
		TotalPixels:      frame.Stats.TotalPixels,
		TotalTiles:       frame.Stats.TotalTiles,
		NumWorkers:       frame.Stats.NumWorkers,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		PixelsPerSecond:  frame.Stats.PixelsPerSecond(),
		AverageLuminance: renderer.AverageLuminance(frame.Colors),
	}
}
