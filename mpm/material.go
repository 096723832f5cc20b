package mpm

import (
	"fmt"
	"strings"
)

// Material selects the constitutive model applied to a particle.
type Material uint8

const (
	Liquid Material = iota
	Jelly
	Snow

	numMaterials
)

// String returns the lowercase material name.
func (m Material) String() string {
	switch m {
	case Liquid:
		return "liquid"
	case Jelly:
		return "jelly"
	case Snow:
		return "snow"
	default:
		return fmt.Sprintf("material(%d)", uint8(m))
	}
}

// Next cycles Liquid -> Jelly -> Snow -> Liquid.
func (m Material) Next() Material {
	return (m + 1) % numMaterials
}

// ParseMaterial maps a config name to a Material.
func ParseMaterial(name string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "liquid", "water":
		return Liquid, nil
	case "jelly", "":
		return Jelly, nil
	case "snow":
		return Snow, nil
	default:
		return 0, fmt.Errorf("unknown material %q", name)
	}
}
