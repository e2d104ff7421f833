package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/senro/config"
	"nyiyui.ca/hato/senro/dgraph"
	"nyiyui.ca/hato/senro/geoindex"
	"nyiyui.ca/hato/senro/topo"
)

var configPath string
var preset string
var near string
var radius float64

var presets = map[string]func() *topo.Topology{
	"straight":  func() *topo.Topology { return topo.Straight(1000) },
	"siding":    func() *topo.Topology { return topo.Siding(500, 300) },
	"crossing":  func() *topo.Topology { return topo.CrossingBench(topo.CrossingType{Kind: topo.DoubleSlip}, 100) },
	"testbench": topo.Testbench,
}

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	flag.StringVar(&configPath, "config", "", "path to HCL conversion options")
	flag.StringVar(&preset, "preset", "testbench", "built-in topology: straight, siding, crossing, or testbench")
	flag.StringVar(&near, "near", "", "list edges drawn near this x,y point")
	flag.Float64Var(&radius, "radius", 0.5, "search radius for -near")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	err = main2()
	if err != nil {
		zap.S().Fatalf("%s", err)
	}
}

func loadTopology() (*topo.Topology, error) {
	mk, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}
	return mk(), nil
}

func main2() error {
	opts := config.Default()
	if configPath != "" {
		var err error
		opts, err = config.LoadFile(configPath)
		if err != nil {
			return err
		}
	}
	y, err := loadTopology()
	if err != nil {
		return err
	}
	err = y.Validate()
	if err != nil {
		return fmt.Errorf("invalid topology: %w", err)
	}
	dg, err := dgraph.Convert(y, opts, dgraph.Collaborators{})
	if err != nil {
		return err
	}

	fmt.Printf("graph %s: %d nodes, %d objects, %d paths\n", dg.ID, len(dg.Inf.Nodes), len(dg.Inf.Objects), len(dg.AllPaths))
	ids := maps.Keys(dg.SectionEdges)
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Printf("section %d: %d edges, entries %v\n", id, len(dg.SectionEdges[id]), dg.SectionEntryNodes[id])
	}

	if near == "" {
		return nil
	}
	var pt topo.PtC
	_, err = fmt.Sscanf(near, "%g,%g", &pt.X, &pt.Y)
	if err != nil {
		return fmt.Errorf("-near %q: %w", near, err)
	}
	x, err := geoindex.New(dg)
	if err != nil {
		return err
	}
	defer x.Close()
	edges, err := x.Near(pt, radius)
	if err != nil {
		return err
	}
	for _, e := range edges {
		km, _ := dg.MileageAt(e.A, e.B, 0)
		sec, _ := dg.SectionOf(e)
		fmt.Printf("%s: section %d, mileage %g\n", e, sec, km)
	}
	return nil
}
