package march

import (
	"math"
	"testing"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

func testSettings() core.RenderSettings {
	settings := core.DefaultRenderSettings()
	settings.TMin = 0
	settings.TMax = 100
	settings.Epsilon = 1e-5
	return settings
}

// countingSDF records how often the wrapped field is evaluated
type countingSDF struct {
	inner sdf.SDF
	calls int
}

func (c *countingSDF) ValueAt(p core.Point3) (float64, material.Index) {
	c.calls++
	return c.inner.ValueAt(p)
}

func TestFindTarget_HitsUnitSphere(t *testing.T) {
	sphere := sdf.WithMaterial(sdf.NewUnitSphere(), 4)
	ray := core.NewRayUnnormalized(core.NewPoint3(-10, 0, 0), core.NewVec3(1, 0, 0))

	hit, ok := FindTarget(sphere, ray, testSettings())
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Point.Subtract(core.NewPoint3(-1, 0, 0)).Length() > 1e-4 {
		t.Errorf("Expected hit near (-1,0,0), got %v", hit.Point)
	}
	if math.Abs(hit.Depth-9) > 1e-4 {
		t.Errorf("Expected depth 9, got %f", hit.Depth)
	}
	if hit.Material != 4 {
		t.Errorf("Expected material 4, got %v", hit.Material)
	}
}

func TestFindTarget_Misses(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"parallel to sphere", core.NewVec3(0, 1, 0)},
		{"away from sphere", core.NewVec3(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRayUnnormalized(core.NewPoint3(-10, 0, 0), tt.direction)
			if hit, ok := FindTarget(sdf.NewUnitSphere(), ray, testSettings()); ok {
				t.Errorf("Expected miss, got hit at %v", hit.Point)
			}
		})
	}
}

func TestFindTarget_StepBudget(t *testing.T) {
	// A ray grazing the sphere takes many small steps
	counter := &countingSDF{inner: sdf.NewUnitSphere()}
	settings := testSettings()
	settings.MaxMarchingSteps = 5
	ray := core.NewRayUnnormalized(core.NewPoint3(-10, 1.0001, 0), core.NewVec3(1, 0, 0))

	if _, ok := FindTarget(counter, ray, settings); ok {
		t.Fatal("Expected miss once the step budget ran out")
	}
	if counter.calls != settings.MaxMarchingSteps+1 {
		t.Errorf("Expected %d evaluations, got %d", settings.MaxMarchingSteps+1, counter.calls)
	}
}

func TestSteps_IsLazy(t *testing.T) {
	counter := &countingSDF{inner: sdf.NewFloor(-1000)}
	ray := core.NewRayUnnormalized(core.NewPoint3(0, 0, 0), core.NewVec3(0, 1, 0))

	pulled := 0
	for range Steps(counter, ray, 0) {
		pulled++
		if pulled == 7 {
			break
		}
	}
	if counter.calls != 7 {
		t.Errorf("Expected 7 evaluations for 7 pulled steps, got %d", counter.calls)
	}
}

func TestSteps_AdvanceByDistance(t *testing.T) {
	ray := core.NewRayUnnormalized(core.NewPoint3(-10, 0, 0), core.NewVec3(1, 0, 0))
	var depths []float64
	for step := range Steps(sdf.NewUnitSphere(), ray, 0.5) {
		depths = append(depths, step.Depth)
		if len(depths) == 2 {
			break
		}
	}
	// First step at tMin, from (-9.5,0,0) the sphere is 8.5 away
	if depths[0] != 0.5 || math.Abs(depths[1]-9) > 1e-9 {
		t.Errorf("Expected depths [0.5 9], got %v", depths)
	}
}

func TestSoftShadow(t *testing.T) {
	sphere := sdf.NewUnitSphere()
	settings := testSettings()
	settings.TMin = 0.001

	tests := []struct {
		name     string
		origin   core.Point3
		light    core.Point3
		expected float64
	}{
		{"blocked by sphere", core.NewPoint3(-5, 0, 0), core.NewPoint3(5, 0, 0), 0},
		{"unobstructed", core.NewPoint3(-5, 5, 0), core.NewPoint3(5, 5, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toLight := tt.light.Subtract(tt.origin)
			ray := core.NewRayUnnormalized(tt.origin, toLight)
			got := SoftShadow(sphere, ray, toLight.Length(), 2, settings)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestSoftShadow_Penumbra(t *testing.T) {
	sphere := sdf.NewUnitSphere()
	settings := testSettings()
	settings.TMin = 0.001

	// Passes 0.2 above the sphere, half way to the light
	origin := core.NewPoint3(-5, 1.2, 0)
	light := core.NewPoint3(5, 1.2, 0)
	toLight := light.Subtract(origin)
	ray := core.NewRayUnnormalized(origin, toLight)

	got := SoftShadow(sphere, ray, toLight.Length(), 8, settings)
	if got <= 0 || got >= 1 {
		t.Errorf("Expected partial shadow in (0,1), got %f", got)
	}

	sharper := SoftShadow(sphere, ray, toLight.Length(), 64, settings)
	if sharper < got {
		t.Errorf("Expected harder shadow to be at least as bright, got %f < %f", sharper, got)
	}
}

func TestSoftShadow_InfiniteTargetStopsAtTMax(t *testing.T) {
	counter := &countingSDF{inner: sdf.NewFloor(-1000)}
	settings := testSettings()
	settings.TMin = 0.001
	ray := core.NewRayUnnormalized(core.NewPoint3(0, 0, 0), core.NewVec3(0, 1, 0))

	got := SoftShadow(counter, ray, math.Inf(1), 16, settings)
	if got != 1 {
		t.Errorf("Expected unobstructed light, got %f", got)
	}
	// The first step already jumps past TMax
	if counter.calls > 2 {
		t.Errorf("Expected the march to stop at TMax, got %d evaluations", counter.calls)
	}
}
