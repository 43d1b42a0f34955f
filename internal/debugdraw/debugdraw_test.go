package debugdraw

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestShade(t *testing.T) {
	base := rl.NewColor(200, 100, 50, 255)

	cases := []struct {
		name   string
		normal rl.Vector3
		min    uint8
		max    uint8
	}{
		{"lit", lightDir, 199, 200},
		{"away", rl.Vector3Negate(lightDir), 89, 90},
		{"up", rl.Vector3{Y: 1}, 150, 199},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := shade(base, c.normal)
			if got.R < c.min || got.R > c.max {
				t.Errorf("Expected red in [%d, %d], got %d", c.min, c.max, got.R)
			}
			if got.A != 255 {
				t.Errorf("Expected alpha kept, got %d", got.A)
			}
		})
	}
}
