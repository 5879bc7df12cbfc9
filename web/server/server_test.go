package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-raymarcher/pkg/config"
	"github.com/df07/go-raymarcher/pkg/scene"
	"github.com/disintegration/imaging"
	"github.com/gorilla/websocket"
)

const ballScene = `{
	"name": "Ball",
	"group": "Test Scenes",
	"camera": {"lookFrom": [0, 0, 5], "lookAt": [0, 0, 0]},
	"materials": [{"name": "red", "color": [1, 0, 0], "shininess": 10}],
	"lights": [{"type": "point", "position": [5, 5, 5]}],
	"sdf": {"type": "sphere", "center": [0, 0, 0], "radius": 1, "material": "red"}
}`

// fakePublisher records uploads
type fakePublisher struct {
	mu    sync.Mutex
	names []string
	sizes []int
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, name)
	f.sizes = append(f.sizes, len(data))
	return "renders/" + name, nil
}

func newTestServer(t *testing.T, publisher Publisher) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ball.json"), []byte(ballScene), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	s := NewServer(&config.Config{ScenesDir: dir, Workers: 2}, publisher)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

type sseEvent struct {
	Type string
	Data string
}

// readSSE reads a finished event stream
func readSSE(t *testing.T, body io.Reader) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.Data = strings.TrimPrefix(line, "data: ")
		case line == "" && current.Type != "":
			events = append(events, current)
			current = sseEvent{}
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Failed to read event stream: %v", err)
	}
	return events
}

func getSSE(t *testing.T, url string) []sseEvent {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected event stream, got %q", ct)
	}
	return readSSE(t, resp.Body)
}

func eventsOfType(events []sseEvent, eventType string) []sseEvent {
	var matched []sseEvent
	for _, e := range events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

func decodePNG(t *testing.T, data string) (int, int) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("Invalid base64 image: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("Unexpected health response %d %v", resp.StatusCode, body)
	}
}

func TestHandleScenes(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/scenes")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var body scene.ScenesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Groups) != 2 {
		t.Fatalf("Expected built-in and file groups, got %+v", body.Groups)
	}
	if len(body.Groups[0].Scenes) != len(scene.Names()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(scene.Names()), len(body.Groups[0].Scenes))
	}
	fileScenes := body.Groups[1].Scenes
	if len(fileScenes) != 1 || fileScenes[0].ID != "file:ball" || fileScenes[0].Name != "Ball" {
		t.Errorf("Unexpected file scenes %+v", fileScenes)
	}
}

func TestHandleRender_StreamsTilesAndFrame(t *testing.T) {
	_, ts := newTestServer(t, nil)

	events := getSSE(t, ts.URL+"/api/render?scene=default&width=16&height=40")
	if len(events) == 0 {
		t.Fatal("Expected events")
	}
	if events[0].Type != "start" {
		t.Errorf("Expected start event first, got %q", events[0].Type)
	}
	if last := events[len(events)-1]; last.Type != "complete" {
		t.Errorf("Expected complete event last, got %q: %s", last.Type, last.Data)
	}

	var start StartUpdate
	if err := json.Unmarshal([]byte(events[0].Data), &start); err != nil {
		t.Fatalf("Invalid start event: %v", err)
	}
	if start.RenderID == "" || start.TotalTiles != 3 {
		t.Errorf("Unexpected start event %+v", start)
	}

	rows := 0
	for _, e := range eventsOfType(events, "tile") {
		var tile TileUpdate
		if err := json.Unmarshal([]byte(e.Data), &tile); err != nil {
			t.Fatalf("Invalid tile event: %v", err)
		}
		w, h := decodePNG(t, tile.ImageData)
		if w != 16 || h != tile.Y1-tile.Y0 {
			t.Errorf("Tile %d-%d: unexpected image size %dx%d", tile.Y0, tile.Y1, w, h)
		}
		rows += tile.Y1 - tile.Y0
	}
	if rows != 40 {
		t.Errorf("Expected tiles to cover 40 rows, got %d", rows)
	}

	passes := eventsOfType(events, "pass")
	if len(passes) != 1 {
		t.Fatalf("Expected one pass event, got %d", len(passes))
	}
	var pass PassUpdate
	if err := json.Unmarshal([]byte(passes[0].Data), &pass); err != nil {
		t.Fatalf("Invalid pass event: %v", err)
	}
	if w, h := decodePNG(t, pass.ImageData); w != 16 || h != 40 {
		t.Errorf("Expected 16x40 frame, got %dx%d", w, h)
	}
	if pass.RenderID != start.RenderID || pass.Stats.TotalPixels != 640 {
		t.Errorf("Unexpected pass event %+v", pass.Stats)
	}
	if pass.Published != "" {
		t.Errorf("Expected no publishing, got %q", pass.Published)
	}

	if len(eventsOfType(events, "console")) == 0 {
		t.Error("Expected console output from the renderer")
	}
}

func TestHandleRender_Preview(t *testing.T) {
	_, ts := newTestServer(t, nil)

	events := getSSE(t, ts.URL+"/api/render?scene=file:ball&width=20&height=10&preview=10")
	passes := eventsOfType(events, "pass")
	if len(passes) != 1 {
		t.Fatalf("Expected one pass event, got %v", events)
	}
	var pass PassUpdate
	if err := json.Unmarshal([]byte(passes[0].Data), &pass); err != nil {
		t.Fatalf("Invalid pass event: %v", err)
	}
	if w, h := decodePNG(t, pass.ImageData); w != 10 || h != 5 {
		t.Errorf("Expected 10x5 preview, got %dx%d", w, h)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"bad width", "width=abc", "invalid width"},
		{"width out of range", "width=5000", "width must be between"},
		{"bad bool", "normals=maybe", "invalid normals"},
		{"unknown scene", "scene=nope&width=4&height=4", "unknown scene"},
		{"missing scene file", "scene=file:nope&width=4&height=4", "Failed to create scene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := getSSE(t, ts.URL+"/api/render?"+tt.query)
			if len(events) != 1 || events[0].Type != "error" {
				t.Fatalf("Expected a single error event, got %+v", events)
			}
			if !strings.Contains(events[0].Data, tt.message) {
				t.Errorf("Expected error mentioning %q, got %q", tt.message, events[0].Data)
			}
		})
	}
}

func TestHandleRender_Publish(t *testing.T) {
	publisher := &fakePublisher{}
	_, ts := newTestServer(t, publisher)

	events := getSSE(t, ts.URL+"/api/render?scene=file:ball&width=8&height=8&publish=true")
	passes := eventsOfType(events, "pass")
	if len(passes) != 1 {
		t.Fatalf("Expected one pass event, got %v", events)
	}
	var pass PassUpdate
	if err := json.Unmarshal([]byte(passes[0].Data), &pass); err != nil {
		t.Fatalf("Invalid pass event: %v", err)
	}

	if len(publisher.names) != 1 {
		t.Fatalf("Expected one upload, got %d", len(publisher.names))
	}
	if !strings.HasPrefix(publisher.names[0], "file-ball/") || !strings.HasSuffix(publisher.names[0], ".png") {
		t.Errorf("Unexpected object name %q", publisher.names[0])
	}
	if pass.Published != "renders/"+publisher.names[0] {
		t.Errorf("Expected published key in pass event, got %q", pass.Published)
	}
}

func TestHandleRender_PublishFailureIsReported(t *testing.T) {
	_, ts := newTestServer(t, &fakePublisher{err: errors.New("bucket gone")})

	events := getSSE(t, ts.URL+"/api/render?scene=file:ball&width=4&height=4&publish=true")
	found := false
	for _, e := range eventsOfType(events, "console") {
		var msg ConsoleMessage
		if err := json.Unmarshal([]byte(e.Data), &msg); err == nil && msg.Level == "error" && strings.Contains(msg.Message, "bucket gone") {
			found = true
		}
	}
	if !found {
		t.Error("Expected publish failure on the console")
	}
	if events[len(events)-1].Type != "complete" {
		t.Errorf("Expected render to complete despite publish failure, got %q", events[len(events)-1].Type)
	}
}

func TestCreateScene_RejectsPaths(t *testing.T) {
	s, _ := newTestServer(t, nil)
	for _, name := range []string{"file:", "file:../ball", "file:sub/ball"} {
		if _, err := s.createScene(&RenderRequest{Scene: name, Width: 4, Height: 4}); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}

func TestHandleStream(t *testing.T) {
	_, ts := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream?scene=file:ball&width=8&height=40"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var start StreamMessage
	if err := conn.ReadJSON(&start); err != nil {
		t.Fatalf("Failed to read start message: %v", err)
	}
	if start.Type != "start" || start.Width != 8 || start.Height != 40 {
		t.Fatalf("Unexpected start message %+v", start)
	}

	rows := 0
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Stream ended before the frame: %v", err)
		}
		if msg.RenderID != start.RenderID {
			t.Errorf("Expected render ID %q, got %q", start.RenderID, msg.RenderID)
		}
		if msg.Type == "rows" {
			if len(msg.RGB) != (msg.Y1-msg.Y0)*8*3 {
				t.Errorf("Rows %d-%d: expected %d bytes, got %d", msg.Y0, msg.Y1, (msg.Y1-msg.Y0)*24, len(msg.RGB))
			}
			rows += msg.Y1 - msg.Y0
			continue
		}
		if msg.Type != "frame" {
			t.Fatalf("Unexpected message %+v", msg)
		}
		if msg.Stats == nil || msg.Stats.TotalPixels != 320 {
			t.Errorf("Unexpected frame stats %+v", msg.Stats)
		}
		if w, h := decodePNG(t, msg.ImageData); w != 8 || h != 40 {
			t.Errorf("Expected 8x40 frame, got %dx%d", w, h)
		}
		break
	}
	if rows != 40 {
		t.Errorf("Expected rows to cover 40 lines, got %d", rows)
	}

	var closing StreamMessage
	if err := conn.ReadJSON(&closing); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("Expected normal close after the frame, got %v", err)
	}
}

func TestHandleStream_BadRequest(t *testing.T) {
	_, ts := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream?width=0"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 response, got %v", resp)
	}
}

func TestHandleInspect(t *testing.T) {
	_, ts := newTestServer(t, nil)

	get := func(query string) (*http.Response, InspectResponse) {
		resp, err := http.Get(ts.URL + "/api/inspect?scene=file:ball&width=3&height=3&" + query)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		var body InspectResponse
		json.NewDecoder(resp.Body).Decode(&body)
		return resp, body
	}

	resp, center := get("x=1&y=1")
	if resp.StatusCode != http.StatusOK || !center.Hit {
		t.Fatalf("Expected hit at the center, got %d %+v", resp.StatusCode, center)
	}
	expected := [3]float64{0, 0, 1}
	for i := range expected {
		if math.Abs(center.Point[i]-expected[i]) > 1e-2 || math.Abs(center.Normal[i]-expected[i]) > 1e-2 {
			t.Errorf("Expected point and normal near %v, got %v and %v", expected, center.Point, center.Normal)
			break
		}
	}
	if center.Material != "0" || math.Abs(center.Depth-4) > 1e-2 {
		t.Errorf("Unexpected material %q or depth %f", center.Material, center.Depth)
	}

	if _, corner := get("x=0&y=0"); corner.Hit {
		t.Errorf("Expected corner ray to miss, got %+v", corner)
	}

	if resp, _ := get("x=3&y=0"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for out of bounds pixel, got %d", resp.StatusCode)
	}
}
