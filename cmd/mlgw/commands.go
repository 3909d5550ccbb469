package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	mlgw "github.com/LorenzoPiccari/MLGW"
	"github.com/LorenzoPiccari/MLGW/gonumExtensions"
	"github.com/LorenzoPiccari/MLGW/reconstruct"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func modelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "model",
		Aliases:  []string{"m"},
		Usage:    "model folder",
		Required: true,
	}
}

func waveFlags() []cli.Flag {
	return []cli.Flag{
		modelFlag(),
		&cli.StringFlag{
			Name:     "params",
			Aliases:  []string{"p"},
			Usage:    "comma separated parameter rows, rows separated by ';', e.g. \"30,20,0.1,-0.2,400\"",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: "polar",
			Usage: "output: polar (h+, hx) or ampph (amplitude, phase)",
		},
		&cli.StringFlag{
			Name:  "phase-ref",
			Value: "merger",
			Usage: "where the phase is zero: merger, start or model",
		},
		&cli.BoolFlag{
			Name:  "reduced",
			Usage: "the grid is in reduced time (s/M_sun)",
		},
		&cli.Float64Flag{Name: "t0", Usage: "first grid time"},
		&cli.Float64Flag{Name: "t1", Usage: "last grid time"},
		&cli.IntFlag{Name: "n", Usage: "number of grid points, 0 for the model grid"},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "describe a model",
		Flags: []cli.Flag{
			modelFlag(),
			&cli.StringFlag{Name: "out", Usage: "append the summary to this file instead of printing it"},
		},
		Action: func(c *cli.Context) error {
			g, err := mlgw.Load(c.String("model"))
			if err != nil {
				return err
			}
			return g.WriteSummary(c.String("out"))
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "evaluate waveforms and write them as CSV",
		Flags: append(waveFlags(), &cli.StringFlag{Name: "out", Usage: "CSV file, standard output if empty"}),
		Action: func(c *cli.Context) error {
			grid, first, second, err := generate(c)
			if err != nil {
				return err
			}
			names := outputNames(c.String("mode"))
			if c.String("out") == "" {
				return writeCSV(os.Stdout, names, grid, first, second)
			}
			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			if err := writeCSV(f, names, grid, first, second); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func plotCommand() *cli.Command {
	return &cli.Command{
		Name:  "plot",
		Usage: "plot the waveform of the first parameter row",
		Flags: append(waveFlags(), &cli.StringFlag{Name: "out", Value: "waveform.png", Usage: "image file"}),
		Action: func(c *cli.Context) error {
			grid, first, second, err := generate(c)
			if err != nil {
				return err
			}
			names := outputNames(c.String("mode"))

			p := plot.New()
			p.X.Label.Text = "t"
			err = plotutil.AddLines(p,
				names[0], plottify(grid, first.RawRowView(0)),
				names[1], plottify(grid, second.RawRowView(0)),
			)
			if err != nil {
				return err
			}
			return p.Save(8*vg.Inch, 4*vg.Inch, c.String("out"))
		},
	}
}

func fitPCACommand() *cli.Command {
	return &cli.Command{
		Name:  "fit-pca",
		Usage: "compute the PCA of a dataset, one sample per row",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "text matrix of samples", Required: true},
			&cli.IntFlag{Name: "k", Usage: "number of components", Required: true},
			&cli.StringFlag{Name: "out", Usage: "PCA file", Required: true},
		},
		Action: func(c *cli.Context) error {
			data, err := gonumExtensions.ReadDenseFile(c.String("data"))
			if err != nil {
				return err
			}
			p, err := reconstruct.Fit(data, c.Int("k"))
			if err != nil {
				return err
			}
			logrus.WithField("action", "fit-pca").
				WithField("components", c.Int("k")).
				Infof("writing PCA to %s", c.String("out"))
			return p.Save(c.String("out"))
		},
	}
}

func generate(c *cli.Context) ([]float64, *mat.Dense, *mat.Dense, error) {
	rows, err := parseRows(c.String("params"))
	if err != nil {
		return nil, nil, nil, err
	}
	mode, err := parseMode(c.String("mode"))
	if err != nil {
		return nil, nil, nil, err
	}
	ref, err := parsePhaseReference(c.String("phase-ref"))
	if err != nil {
		return nil, nil, nil, err
	}
	g, err := mlgw.Load(c.String("model"), mlgw.WithPhaseReference(ref))
	if err != nil {
		return nil, nil, nil, err
	}

	req := mlgw.Request{Mode: mode, ReducedGrid: c.Bool("reduced")}
	if n := c.Int("n"); n > 0 {
		req.Grid = linspace(c.Float64("t0"), c.Float64("t1"), n)
	}
	first, second, err := g.Generate(rows, req)
	if err != nil {
		return nil, nil, nil, err
	}
	grid := req.Grid
	if grid == nil {
		grid = g.Times()
	}
	return grid, first, second, nil
}

func parseRows(s string) ([][]float64, error) {
	var rows [][]float64
	for _, line := range strings.Split(s, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parameter row %q", line)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.New("no parameters given")
	}
	return rows, nil
}

func parseMode(s string) (mlgw.Mode, error) {
	switch s {
	case "polar":
		return mlgw.ModePolarizations, nil
	case "ampph":
		return mlgw.ModeAmpPhase, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}

func parsePhaseReference(s string) (mlgw.PhaseReference, error) {
	for _, ref := range []mlgw.PhaseReference{mlgw.PhaseAtMerger, mlgw.PhaseAtStart, mlgw.PhaseAsModelled} {
		if ref.String() == s {
			return ref, nil
		}
	}
	return 0, errors.Errorf("unknown phase reference %q", s)
}

func linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	res := make([]float64, n)
	for i := range res {
		res[i] = start + (stop-start)*float64(i)/float64(n-1)
	}
	return res
}

func outputNames(mode string) [2]string {
	if mode == "ampph" {
		return [2]string{"amp", "ph"}
	}
	return [2]string{"h_plus", "h_cross"}
}

// writeCSV writes one line per grid point: t, then the two outputs of every
// parameter row.
func writeCSV(w io.Writer, names [2]string, grid []float64, first, second *mat.Dense) error {
	n, _ := first.Dims()
	cw := csv.NewWriter(w)
	header := []string{"t"}
	for i := 0; i < n; i++ {
		suffix := "_" + strconv.Itoa(i)
		header = append(header, names[0]+suffix, names[1]+suffix)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, 1+2*n)
	for j, t := range grid {
		record[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i := 0; i < n; i++ {
			record[1+2*i] = strconv.FormatFloat(first.At(i, j), 'g', -1, 64)
			record[2+2*i] = strconv.FormatFloat(second.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func plottify(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
