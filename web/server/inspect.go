package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/march"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/output"
	"github.com/df07/go-raymarcher/pkg/renderer"
	"github.com/df07/go-raymarcher/pkg/scene"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Depth      float64                `json:"depth"`    // Distance travelled along the ray
	Distance   float64                `json:"distance"` // Field value at the hit point
	Steps      int                    `json:"steps"`    // SDF evaluations spent marching
	Material   string                 `json:"material"` // Material tag, "none" when untagged
	Properties map[string]interface{} `json:"properties"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	return map[string]interface{}{
		"ambient":      colorHex(mat.Ambient),
		"diffuse":      colorHex(mat.Diffuse),
		"specular":     colorHex(mat.Specular),
		"shininess":    mat.Shininess,
		"reflectivity": mat.Reflectivity,
	}
}

func colorHex(c core.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", output.ConvertToByte(c.R), output.ConvertToByte(c.G), output.ConvertToByte(c.B))
}

// inspectPixel marches the primary ray through pixel (pixelX, pixelY), with
// pixelY counted from the top of the image
func inspectPixel(sceneObj *scene.Scene, settings core.RenderSettings, width, height, pixelX, pixelY int) InspectResponse {
	ray := renderer.PixelRay(sceneObj.Camera, pixelX, height-1-pixelY, width, height)

	hit, ok := march.FindTarget(sceneObj.SDF, ray, settings)
	if !ok {
		return InspectResponse{Hit: false, Steps: hit.Steps, Material: material.NoMaterial.String()}
	}

	normal := sdf.EstimateNormal(sceneObj.SDF, hit.Point, settings.NormalEpsilon).Vec()
	resolved := sceneObj.Materials.Resolve(hit.Material)

	return InspectResponse{
		Hit:      true,
		Point:    [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:   [3]float64{normal.X, normal.Y, normal.Z},
		Depth:    hit.Depth,
		Distance: sdf.Distance(sceneObj.SDF, hit.Point),
		Steps:    hit.Steps,
		Material: hit.Material.String(),
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(resolved),
		},
	}
}

// handleInspect handles ray marching inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	inspectReq, err := s.parseRenderRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	response := inspectPixel(sceneObj, inspectReq.renderConfig().Render, inspectReq.Width, inspectReq.Height, pixelX, pixelY)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
