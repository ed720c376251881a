// Package wlrrandr controls the rotation transform of the physical output
// driving a TV panel, via the wlr-randr utility.
package wlrrandr

import (
	"encoding/json"
	"fmt"
	"os/exec"
)

type Output struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Make         string       `json:"make"`
	Model        string       `json:"model"`
	Serial       string       `json:"serial"`
	PhysicalSize PhysicalSize `json:"physical_size"`
	Enabled      bool         `json:"enabled"`
	Position     Position     `json:"position"`
	Transform    string       `json:"transform"`
	Scale        float64      `json:"scale"`
	AdaptiveSync bool         `json:"adaptive_sync"`
}

type PhysicalSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var transformByDegrees = map[int]string{
	0:   "normal",
	90:  "90",
	180: "180",
	270: "270",
}

var degreesByTransform = map[string]int{
	"normal": 0,
	"90":     90,
	"180":    180,
	"270":    270,
}

// GetTransform inspects the current rotation of the named output using
// wlr-randr and returns it in degrees.
func GetTransform(outputName string) (int, error) {
	cmd := exec.Command("wlr-randr", "--output", outputName, "--json")
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run wlr-randr: %w", err)
	}

	var results []Output
	if err := json.Unmarshal(out, &results); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wlr-randr output: %w", err)
	}

	for _, result := range results {
		if result.Name == outputName {
			degrees, ok := degreesByTransform[result.Transform]
			if !ok {
				return 0, fmt.Errorf("output %s has non-cardinal transform %q", outputName, result.Transform)
			}
			return degrees, nil
		}
	}

	return 0, fmt.Errorf("output %s not found", outputName)
}

// SetTransform rotates the named output to the given cardinal angle using
// wlr-randr.
func SetTransform(outputName string, degrees int) error {
	transform, ok := transformByDegrees[degrees]
	if !ok {
		return fmt.Errorf("rotation must be one of 0, 90, 180, 270, got %d", degrees)
	}
	cmd := exec.Command("wlr-randr", "--output", outputName, "--transform", transform)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run wlr-randr: %w", err)
	}
	return nil
}
