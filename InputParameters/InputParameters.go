package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type MappingParameters struct {
	Title         string  `yaml:"Title"`
	CellType      string  `yaml:"CellType"`
	Degree        int     `yaml:"Degree"`
	Variant       string  `yaml:"Variant"`
	NumPoints     int     `yaml:"NumPoints"`
	Tolerance     float64 `yaml:"Tolerance"`
	MaxIterations int     `yaml:"MaxIterations"`
	Perturbation  float64 `yaml:"Perturbation"` // Node displacement amplitude for the curved test cell
}

func (mp *MappingParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, mp)
}

func (mp *MappingParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", mp.Title)
	fmt.Printf("[%s]\t\t= Cell Type\n", mp.CellType)
	fmt.Printf("[%d]\t\t\t\t= Degree\n", mp.Degree)
	fmt.Printf("[%s]\t\t= Variant\n", mp.Variant)
	fmt.Printf("[%d]\t\t\t= Number of Points\n", mp.NumPoints)
	fmt.Printf("%8.2e\t\t= Tolerance\n", mp.Tolerance)
	fmt.Printf("[%d]\t\t\t\t= Max Iterations\n", mp.MaxIterations)
	fmt.Printf("%8.5f\t\t= Perturbation\n", mp.Perturbation)
}
