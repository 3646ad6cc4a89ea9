// Command casemaker generates a 3D-printable enclosure for a circuit
// board. It reads the board's outline and connector footprints from an
// EAGLE .brd file or a board script, builds a hollow case with cutouts
// and screw holes, and writes the printable pieces as OpenSCAD source
// or rendered STL meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chazu/casemaker/pkg/board"
	"github.com/chazu/casemaker/pkg/enclosure"
	"github.com/chazu/casemaker/pkg/geom"
	"github.com/chazu/casemaker/pkg/report"
	"github.com/chazu/casemaker/pkg/script"
	"github.com/chazu/casemaker/pkg/solid"
	"github.com/chazu/casemaker/pkg/solid/scad"
	sdfxbackend "github.com/chazu/casemaker/pkg/solid/sdfx"
)

type options struct {
	boardPath  string
	outPath    string
	gspecPath  string
	openTop    bool
	cells      int
	reportPath string
	dxfPath    string
}

func main() {
	var opts options
	flag.StringVar(&opts.outPath, "f", "out.scad", "output file; .scad emits OpenSCAD source, .stl renders a mesh")
	flag.StringVar(&opts.gspecPath, "g", "", "height-spec XML overriding the standoff clearances")
	flag.BoolVar(&opts.openTop, "open", false, "open-top case: no ceiling, no top piece, no top screws")
	flag.IntVar(&opts.cells, "cells", sdfxbackend.DefaultCells, "marching-cubes resolution for STL output")
	flag.StringVar(&opts.reportPath, "report", "", "also write a PDF assembly sheet to this path")
	flag.StringVar(&opts.dxfPath, "dxf", "", "also write a DXF drill template to this path")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: casemaker [flags] <board.brd | board.zy>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.boardPath = flag.Arg(0)

	if err := run(opts); err != nil {
		log.Fatal().Err(err).Msg("casemaker failed")
	}
}

func run(opts options) error {
	backend, err := backendFor(opts.outPath, opts.cells)
	if err != nil {
		return err
	}

	brd, scriptHeights, err := loadBoard(opts.boardPath)
	if err != nil {
		return err
	}
	log.Debug().
		Stringer("outline", brd.Outline).
		Int("cutouts", len(brd.Cutouts)).
		Msg("board loaded")
	if brd.Skipped > 0 {
		log.Debug().Int("rectangles", brd.Skipped).Msg("skipped unrecognized layers")
	}

	heights := board.DefaultHeights()
	if scriptHeights != nil {
		heights = *scriptHeights
	}
	// An explicit -g spec wins over (standoff ...) from the script.
	if opts.gspecPath != "" {
		heights, err = board.LoadHeightSpec(opts.gspecPath)
		if err != nil {
			return err
		}
	}

	dims := enclosure.DefaultDimensions()
	dims.SpaceTop = heights.SpaceTop
	dims.SpaceBot = heights.SpaceBot
	dims.OpenTop = opts.openTop

	c, err := enclosure.New(backend, brd.Outline, dims)
	if err != nil {
		return err
	}

	if err := applyCuts(c, brd); err != nil {
		return err
	}

	written, err := c.Save(opts.outPath)
	if err != nil {
		return err
	}
	for _, path := range written {
		log.Info().Str("file", path).Msg("wrote")
	}

	if opts.reportPath != "" {
		if err := report.WritePDF(opts.reportPath, c, brd); err != nil {
			return fmt.Errorf("assembly sheet: %w", err)
		}
		log.Info().Str("file", opts.reportPath).Msg("wrote")
	}
	if opts.dxfPath != "" {
		if err := report.WriteDXF(opts.dxfPath, c, brd); err != nil {
			return fmt.Errorf("drill template: %w", err)
		}
		log.Info().Str("file", opts.dxfPath).Msg("wrote")
	}
	return nil
}

// backendFor selects the solid backend from the output extension.
func backendFor(path string, cells int) (solid.Backend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scad":
		return scad.New(), nil
	case ".stl":
		return sdfxbackend.New(cells), nil
	default:
		return nil, fmt.Errorf("output %s: unsupported extension, want .scad or .stl", path)
	}
}

// loadBoard reads the board from an EAGLE .brd file or, for any other
// extension, evaluates it as a board script. Script standoff heights
// come back alongside the board; the EAGLE path never sets them.
func loadBoard(path string) (*board.Board, *board.HeightSpec, error) {
	if strings.EqualFold(filepath.Ext(path), ".brd") {
		b, err := board.Load(path)
		if err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read board script: %w", err)
	}
	res, evalErrs, err := script.NewEngine().Evaluate(string(source))
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	return res.Board, res.Heights, nil
}

// applyCuts carves every recognized cutout into the case. A board with
// no recognized cutouts produces a sealed box, which is more often a
// tagging mistake than an intent, so it draws a warning.
func applyCuts(c *enclosure.Case, brd *board.Board) error {
	if len(brd.Cutouts) == 0 {
		log.Warn().Msg("board has no cutouts on recognized layers; the case will have no openings")
		return nil
	}

	apply := func(layer board.Layer, cut func(r geom.Rect) error) error {
		for _, co := range brd.CutoutsOn(layer) {
			if err := cut(co.Rect); err != nil {
				return fmt.Errorf("cut %s %v: %w", layer, co.Rect, err)
			}
			log.Debug().
				Str("layer", string(layer)).
				Str("ref", co.Ref).
				Stringer("rect", co.Rect).
				Msg("cut")
		}
		return nil
	}

	if err := apply(board.LayerTopFaceplate, c.CutTop); err != nil {
		return err
	}
	if err := apply(board.LayerBottomFaceplate, c.CutBot); err != nil {
		return err
	}
	return apply(board.LayerSideCut, c.CutSide)
}
