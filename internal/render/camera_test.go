package render

import (
	"testing"

	"github.com/dmarch/specfall/internal/waterfall"
)

func TestProjectCenterLandsMidScreen(t *testing.T) {
	cam := defaultCamera()
	sx, sy, ok := cam.project(waterfall.Vec3{X: cam.centerX, Y: cam.centerY, Z: cam.centerZ}, 1280, 720)
	if !ok {
		t.Fatal("view center not visible")
	}
	if sx != 640 || sy != 360 {
		t.Fatalf("view center projected to (%v, %v), want (640, 360)", sx, sy)
	}
}

func TestProjectDepthOrdering(t *testing.T) {
	cam := defaultCamera()
	// The whole frequency axis at both ends of the history depth stays on
	// screen for the fixed viewpoint.
	for _, v := range []waterfall.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 20, Y: 0, Z: 0},
		{X: 0, Y: -5, Z: 10},
		{X: 20, Y: 0.5, Z: 10},
	} {
		sx, sy, ok := cam.project(v, 1280, 720)
		if !ok {
			t.Fatalf("vertex %+v behind near plane", v)
		}
		if sx < -1280 || sx > 2560 || sy < -720 || sy > 1440 {
			t.Fatalf("vertex %+v projected far off screen: (%v, %v)", v, sx, sy)
		}
	}
}

func TestProjectHigherAmplitudeIsHigherOnScreen(t *testing.T) {
	cam := defaultCamera()
	_, low, _ := cam.project(waterfall.Vec3{X: 10, Y: -5, Z: 5}, 1280, 720)
	_, high, _ := cam.project(waterfall.Vec3{X: 10, Y: 0, Z: 5}, 1280, 720)
	if high >= low {
		t.Fatalf("louder vertex drawn lower: y=%v vs y=%v", high, low)
	}
}
