package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-raymarcher/pkg/config"
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/loaders"
	"github.com/df07/go-raymarcher/pkg/scene"
	"github.com/disintegration/imaging"
	"github.com/gorilla/websocket"
	"github.com/nfnt/resize"
)

const (
	// DefaultTileHeight is the number of rows per streamed band
	DefaultTileHeight = 16
	defaultScene      = "default"
)

// Publisher stores finished renders somewhere durable
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Server handles web requests for the ray marcher
type Server struct {
	port      int
	scenesDir string
	workers   int
	staticDir string
	publisher Publisher // nil disables publishing
	upgrader  websocket.Upgrader
}

// NewServer creates a new web server. publisher may be nil.
func NewServer(cfg *config.Config, publisher Publisher) *Server {
	return &Server{
		port:      cfg.Port,
		scenesDir: cfg.ScenesDir,
		workers:   cfg.Workers,
		staticDir: "static/",
		publisher: publisher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene name, or "file:<name>" for a JSON scene
	Width   int    `json:"width"`   // Image width
	Height  int    `json:"height"`  // Image height
	Workers int    `json:"workers"` // Parallel workers, 0 = server default
	Normals bool   `json:"normals"` // Color by surface normal instead of shading
	Preview int    `json:"preview"` // Maximum width of the returned image, 0 = full size
	Publish bool   `json:"publish"` // Upload the finished frame
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalTiles       int     `json:"totalTiles"`
	NumWorkers       int     `json:"numWorkers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	PixelsPerSecond  float64 `json:"pixelsPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and JSON scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: defaultScene}
	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 225, 1, 2000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", s.workers, 0, 256); err != nil {
		return nil, err
	}
	if req.Preview, err = parseIntParam(query, "preview", 0, 0, 2000); err != nil {
		return nil, err
	}
	if req.Normals, err = parseBoolParam(query, "normals"); err != nil {
		return nil, err
	}
	if req.Publish, err = parseBoolParam(query, "publish"); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1280*720 {
		log.Printf("Render warning: %dx%d may render slowly", req.Width, req.Height)
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses an optional boolean parameter, false when absent
func parseBoolParam(values url.Values, key string) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return false, nil
}

// renderConfig turns a request into the renderer's config
func (req *RenderRequest) renderConfig() core.Config {
	cfg := core.NewConfig(req.Width, req.Height)
	if req.Normals {
		cfg.Render.MaterialOverride = core.OverrideNormal
	}
	return cfg
}

// createScene builds the requested scene with the camera matched to the image
// aspect ratio
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	override := geometry.CameraConfig{AspectRatio: float64(req.Width) / float64(req.Height)}

	if name, ok := strings.CutPrefix(req.Scene, "file:"); ok {
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("invalid scene file name %q", name)
		}
		sceneObj, _, err := loaders.LoadSceneFile(filepath.Join(s.scenesDir, name+".json"), override)
		return sceneObj, err
	}

	return scene.Create(req.Scene, override)
}

// encodePNG encodes an image as PNG, downscaling it first when maxWidth is
// set and smaller than the image
func encodePNG(img image.Image, maxWidth int) ([]byte, error) {
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image, maxWidth int) (string, error) {
	data, err := encodePNG(img, maxWidth)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
