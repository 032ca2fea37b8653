package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"Sagitta/internal/calc/chart"
	"Sagitta/internal/calc/frame"
	"Sagitta/internal/calc/importer"
	lens "Sagitta/internal/calc/lens"
	"Sagitta/internal/calc/report"

	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var lf lensFlags
	var asJSON, profile bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute radii and edge thickness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := lf.load(cmd)
			if err != nil {
				return err
			}
			res, err := lens.Calculate(file.Input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "R1: %.1f mm\n", res.R1MM)
			fmt.Fprintf(out, "R2: %.1f mm\n", res.R2MM)
			fmt.Fprintf(out, "Edge thickness: %.3f mm\n", res.EdgeThicknessMM)
			if res.Point != nil {
				fmt.Fprintf(out, "Thickness at x=%.2f mm: %.3f mm\n", res.Point.XMM, res.Point.ThicknessMM)
			}
			if profile {
				fmt.Fprintln(out, "x_mm\tthickness_mm")
				for _, s := range res.Profile {
					fmt.Fprintf(out, "%.3f\t%.4f\n", s.XMM, s.ThicknessMM)
				}
			}
			printWarnings(cmd.ErrOrStderr(), res.Warnings)
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&profile, "profile", false, "print the sampled profile")
	return cmd
}

func newPointCmd() *cobra.Command {
	var lf lensFlags
	var x float64

	cmd := &cobra.Command{
		Use:   "point",
		Short: "Thickness at a horizontal offset from the optical centre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := lf.load(cmd)
			if err != nil {
				return err
			}
			spec := file.Input.Spec
			if _, err := lens.ComputeLocalThickness(spec, x); err != nil {
				return err
			}
			r, _ := lens.ComputeRadii(spec)
			p := lens.QueryPoint(spec, r, x)
			where := "inside lens"
			if !p.InsideLens {
				where = "outside lens"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "x=%.2f mm thickness=%.3f mm (%s)\n", p.XMM, p.ThicknessMM, where)
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().Float64Var(&x, "x", 0, "offset from the optical centre (mm)")
	_ = cmd.MarkFlagRequired("x")
	return cmd
}

func newPlotCmd() *cobra.Command {
	var lf lensFlags
	var out string
	var section bool
	var x float64

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write the profile chart (.png or .svg) or a cross-section sketch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := lf.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("x") {
				file.Input.XMM = &x
			}
			res, err := lens.Calculate(file.Input)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if section {
				r := lens.Radii{R1MM: res.R1MM, R2MM: res.R2MM}
				chart.Section(f, file.Input.Spec, r, len(res.Profile))
			} else {
				format := chart.PNG
				if strings.EqualFold(filepath.Ext(out), ".svg") {
					format = chart.SVG
				}
				if _, err := chart.WriteChart(f, res.Profile, res.Point, format); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return f.Close()
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "profile.png", "output file")
	cmd.Flags().BoolVar(&section, "section", false, "draw the cross-section as SVG instead of the thickness chart")
	cmd.Flags().Float64Var(&x, "x", 0, "mark the thickness at this offset (mm)")
	return cmd
}

func newFrameCmd() *cobra.Command {
	var lf lensFlags
	var in frame.Input
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Worst-case edge thickness for a decentred lens in a rectangular frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := lf.load(cmd)
			if err != nil {
				return err
			}
			fin := in
			if file.Frame != nil {
				fin = *file.Frame
				fl := cmd.Flags()
				for name, dst := range map[string]*float64{
					"calibre":   &fin.CalibreMM,
					"height":    &fin.FrameHeightMM,
					"bridge":    &fin.BridgeMM,
					"pd":        &fin.MonoPDMM,
					"allowance": &fin.AllowanceMM,
				} {
					if fl.Changed(name) {
						v, _ := fl.GetFloat64(name)
						*dst = v
					}
				}
			}
			fin.Lens = file.Input.Spec
			if fin.CalibreMM == 0 && fin.MonoPDMM == 0 {
				return errors.New("frame dimensions required: use --calibre, --height, --bridge and --pd or a spec file with a frame section")
			}

			res, err := frame.Calculate(fin)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "Decentration: %.2f mm\n", res.DecentrationMM)
			fmt.Fprintf(out, "Minimum blank: %.1f mm\n", res.MinBlankDiameterMM)
			fmt.Fprintf(out, "Temporal edge: %.3f mm\n", res.TemporalEdgeMM)
			fmt.Fprintf(out, "Nasal edge: %.3f mm\n", res.NasalEdgeMM)
			fmt.Fprintf(out, "Worst edge: %.3f mm\n", res.WorstEdgeMM)
			printWarnings(cmd.ErrOrStderr(), res.Warnings)
			return nil
		},
	}
	lf.register(cmd)
	fl := cmd.Flags()
	fl.Float64Var(&in.CalibreMM, "calibre", 0, "frame box width A (mm)")
	fl.Float64Var(&in.FrameHeightMM, "height", 0, "frame box height B (mm)")
	fl.Float64Var(&in.BridgeMM, "bridge", 0, "bridge DBL (mm)")
	fl.Float64Var(&in.MonoPDMM, "pd", 0, "monocular pupillary distance (mm)")
	fl.Float64Var(&in.AllowanceMM, "allowance", 0, "edging allowance (mm, default 2)")
	fl.BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newReportCmd() *cobra.Command {
	var lf lensFlags
	var out string
	var meta report.Input

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := lf.load(cmd)
			if err != nil {
				return err
			}
			in := meta
			in.Input = file.Input

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := report.Write(f, in, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return f.Close()
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "lens-report.pdf", "output file")
	cmd.Flags().StringVar(&meta.Project, "project", "", "project name")
	cmd.Flags().StringVar(&meta.Author, "author", "", "author")
	cmd.Flags().StringVar(&meta.Title, "title", "", "report title")
	return cmd
}

func newExportCmd() *cobra.Command {
	var lf lensFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the profile to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := lf.load(cmd)
			if err != nil {
				return err
			}
			res, err := lens.Calculate(file.Input)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := importer.WriteProfile(f, file.Input.Spec.WithDefaults(), res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return f.Close()
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "lens-profile.xlsx", "output file")
	return cmd
}
