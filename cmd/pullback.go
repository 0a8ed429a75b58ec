/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"image/color"
	"io/ioutil"
	"math"
	"os"
	"time"

	"github.com/notargets/avs/chart2d"

	"github.com/pkg/profile"

	"github.com/ramen-newdals/dolfinx/InputParameters"
	"github.com/ramen-newdals/dolfinx/element"
	"github.com/ramen-newdals/dolfinx/geometry"
	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"

	"github.com/spf13/cobra"
)

type ModelPullback struct {
	ParamsFile string
	Graph      bool
	Profile    bool
	Delay      time.Duration
}

// PullbackCmd represents the pullback command
var PullbackCmd = &cobra.Command{
	Use:   "pullback",
	Short: "Round trip verification of the reference to physical cell mapping",
	Long: `
Builds a Lagrange coordinate element, curves a single physical cell by
displacing its non vertex nodes, pushes a cloud of reference points forward
and pulls them back with the Newton solver, reporting the round trip error,

dolfinx pullback `,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("pullback called")
		mp := &ModelPullback{}
		if mp.ParamsFile, err = cmd.Flags().GetString("paramsFile"); err != nil {
			panic(err)
		}
		mp.Graph, _ = cmd.Flags().GetBool("graph")
		mp.Profile, _ = cmd.Flags().GetBool("profile")
		dr, _ := cmd.Flags().GetInt("delay")
		mp.Delay = time.Duration(dr) * time.Millisecond
		ip := processPullbackInput(mp, cmd)
		RunPullback(mp, ip)
	},
}

func processPullbackInput(mp *ModelPullback, cmd *cobra.Command) (ip *InputParameters.MappingParameters) {
	var (
		err error
	)
	ip = &InputParameters.MappingParameters{}
	ip.Title, _ = cmd.Flags().GetString("title")
	ip.CellType, _ = cmd.Flags().GetString("cellType")
	ip.Degree, _ = cmd.Flags().GetInt("degree")
	ip.Variant, _ = cmd.Flags().GetString("variant")
	ip.NumPoints, _ = cmd.Flags().GetInt("numPoints")
	ip.Tolerance, _ = cmd.Flags().GetFloat64("tolerance")
	ip.MaxIterations, _ = cmd.Flags().GetInt("maxIterations")
	ip.Perturbation, _ = cmd.Flags().GetFloat64("perturbation")
	if len(mp.ParamsFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(mp.ParamsFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			exampleFile := `
########################################
Title: "Curved Triangle"
CellType: triangle
Degree: 2
Variant: equispaced
NumPoints: 20
Tolerance: 1.e-12
MaxIterations: 20
Perturbation: 0.1
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(PullbackCmd)
	PullbackCmd.Flags().StringP("paramsFile", "I", "", "YAML file for mapping parameters like:\n\t- CellType\n\t- Degree\n\t- Tolerance")
	PullbackCmd.Flags().String("title", "Round Trip", "title for the run")
	PullbackCmd.Flags().StringP("cellType", "c", "triangle", "cell type: interval, triangle, quad, tet, hex")
	PullbackCmd.Flags().IntP("degree", "n", 2, "polynomial degree of the cell geometry")
	PullbackCmd.Flags().String("variant", "equispaced", "node variant: equispaced or gll")
	PullbackCmd.Flags().IntP("numPoints", "k", 20, "number of points in the round trip cloud")
	PullbackCmd.Flags().Float64("tolerance", 1.e-12, "Newton convergence tolerance on the reference correction norm")
	PullbackCmd.Flags().Int("maxIterations", 20, "Newton iteration budget per point")
	PullbackCmd.Flags().Float64("perturbation", 0.1, "amplitude of the node displacement curving the cell")
	PullbackCmd.Flags().BoolP("graph", "g", false, "display the curved cell and the point cloud")
	PullbackCmd.Flags().IntP("delay", "d", 5000, "milliseconds to keep the plot window open")
	PullbackCmd.Flags().Bool("profile", false, "write a CPU profile for the pull back solve")
}

func RunPullback(mp *ModelPullback, ip *InputParameters.MappingParameters) {
	var (
		err error
	)
	if mp.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip.Print()
	ct, err := mesh.CellTypeFromString(ip.CellType)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	variant, err := element.VariantFromString(ip.Variant)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	el, err := element.NewLagrange(ct, ip.Degree, variant)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	cm := geometry.NewCoordinateElement(el)
	geom := curvedCellGeometry(el, ip.Perturbation)
	X := referenceCloud(ct, ip.NumPoints)
	x := cm.PushForward(X, geom)

	start := time.Now()
	X2, err := cm.PullBack(x, geom, ip.Tolerance, ip.MaxIterations)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("pull back failed: %s\n", err.Error())
		os.Exit(1)
	}

	var maxErr float64
	numPoints, tdim := X.Dims()
	for p := 0; p < numPoints; p++ {
		for j := 0; j < tdim; j++ {
			if e := math.Abs(X2.At(p, j) - X.At(p, j)); e > maxErr {
				maxErr = e
			}
		}
	}
	fmt.Printf("affine map: %v, geometry nodes: %d\n", cm.IsAffine(), cm.Dim())
	fmt.Printf("pulled back %d points in %s\n", numPoints, elapsed)
	fmt.Printf("max round trip error: %8.2e\n", maxErr)
	if mp.Graph {
		plotCell(cm, geom, x, mp.Delay)
	}
}

// curvedCellGeometry maps the reference nodes through a diagonal affine
// stretch plus a sinusoidal displacement that vanishes at the vertices,
// so degree 1 cells stay straight sided and higher degrees curve.
func curvedCellGeometry(el *element.Lagrange, amplitude float64) (geom utils.Matrix) {
	var (
		nodes    = el.Nodes()
		np, tdim = nodes.Dims()
		scale    = [3]float64{4, 3, 2}
		offset   = [3]float64{2, 1, -1}
	)
	geom = utils.NewMatrix(np, tdim)
	for n := 0; n < np; n++ {
		for j := 0; j < tdim; j++ {
			u := nodes.At(n, j)
			geom.Set(n, j, offset[j]+scale[j]*u+amplitude*math.Sin(math.Pi*u))
		}
	}
	return
}

// referenceCloud marches points from the cell centroid toward the first
// vertex, staying strictly inside the reference cell.
func referenceCloud(ct mesh.CellType, numPoints int) (X utils.Matrix) {
	var (
		tdim  = ct.Dim()
		verts = mesh.UnitVertices(ct)
		nv, _ = verts.Dims()
	)
	c := make([]float64, tdim)
	for v := 0; v < nv; v++ {
		for j := 0; j < tdim; j++ {
			c[j] += verts.At(v, j) / float64(nv)
		}
	}
	X = utils.NewMatrix(numPoints, tdim)
	for p := 0; p < numPoints; p++ {
		t := 0.9 * float64(p+1) / float64(numPoints)
		for j := 0; j < tdim; j++ {
			X.Set(p, j, c[j]+t*(verts.At(0, j)-c[j]))
		}
	}
	return
}

func plotCell(cm *geometry.CoordinateElement, geom, x utils.Matrix, delay time.Duration) {
	var (
		tdim      = cm.CellShape().Dim()
		numPts, _ = x.Dims()
	)
	if tdim != 2 {
		fmt.Println("graphing supports 2D cells only")
		return
	}
	var xmin, xmax, ymin, ymax float64
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	nNodes, _ := geom.Dims()
	for n := 0; n < nNodes; n++ {
		xmin = math.Min(xmin, geom.At(n, 0))
		xmax = math.Max(xmax, geom.At(n, 0))
		ymin = math.Min(ymin, geom.At(n, 1))
		ymax = math.Max(ymax, geom.At(n, 1))
	}
	dx, dy := xmax-xmin, ymax-ymin
	chart := chart2d.NewChart2D(1920, 1920,
		float32(xmin-0.1*dx), float32(xmax+0.1*dx),
		float32(ymin-0.1*dy), float32(ymax+0.1*dy))
	go chart.Plot()
	white := color.RGBA{
		R: 255,
		G: 255,
		B: 255,
		A: 0,
	}
	black := color.RGBA{
		R: 0,
		G: 0,
		B: 0,
		A: 0,
	}
	// The curved cell boundary, each edge forward mapped along its
	// parameterization
	var (
		ct    = cm.CellShape()
		verts = mesh.UnitVertices(ct)
		edges = mesh.EntityVertices(ct, 1)
		ns    = 10 * cm.Degree()
	)
	for e, ev := range edges {
		edgePts := utils.NewMatrix(ns+1, tdim)
		for i := 0; i <= ns; i++ {
			s := float64(i) / float64(ns)
			for j := 0; j < tdim; j++ {
				edgePts.Set(i, j, verts.At(ev[0], j)+s*(verts.At(ev[1], j)-verts.At(ev[0], j)))
			}
		}
		xe := cm.PushForward(edgePts, geom)
		if err := chart.AddSeries(fmt.Sprintf("edge%d", e), xe.Col(0).DataP, xe.Col(1).DataP,
			chart2d.NoGlyph, chart2d.Solid, white); err != nil {
			panic("unable to add graph series")
		}
	}
	xd := make([]float64, numPts)
	yd := make([]float64, numPts)
	for p := 0; p < numPts; p++ {
		xd[p], yd[p] = x.At(p, 0), x.At(p, 1)
	}
	if err := chart.AddSeries("points", xd, yd,
		chart2d.CircleGlyph, chart2d.NoLine, black); err != nil {
		panic("unable to add graph series")
	}
	time.Sleep(delay)
}
