package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	lens "Sagitta/internal/calc/lens"
	"Sagitta/internal/logger"
	"Sagitta/internal/specfile"

	"github.com/spf13/cobra"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "lensctl",
		Short:        "Lens edge thickness calculator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Setup(logger.Config{Debug: debug, Format: "text", Output: cmd.ErrOrStderr()})
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(
		newCalcCmd(),
		newPointCmd(),
		newPlotCmd(),
		newFrameCmd(),
		newReportCmd(),
		newExportCmd(),
	)
	return cmd
}

// lensFlags are shared by every subcommand. Flags given explicitly override
// values read from --spec.
type lensFlags struct {
	specPath  string
	diameter  float64
	thickness float64
	index     float64
	r1, r2    float64
	power     float64
	family    string
	samples   int
}

func (f *lensFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.specPath, "spec", "", "YAML spec file")
	fl.Float64Var(&f.diameter, "diameter", 60, "lens diameter (mm)")
	fl.Float64Var(&f.thickness, "ct", 2, "central thickness (mm)")
	fl.Float64Var(&f.index, "index", 1.5, "refractive index")
	fl.Float64Var(&f.r1, "r1", 100, "anterior radius (mm)")
	fl.Float64Var(&f.r2, "r2", -80, "posterior radius (mm)")
	fl.Float64Var(&f.power, "power", 0, "dioptric power; switches to power mode")
	fl.StringVar(&f.family, "family", "", "biconvex, biconcave, plano_convex or plano_concave")
	fl.IntVar(&f.samples, "samples", 0, "profile samples (default 200)")
}

func (f *lensFlags) load(cmd *cobra.Command) (specfile.File, error) {
	var file specfile.File
	if f.specPath != "" {
		var err error
		if file, err = specfile.Load(f.specPath); err != nil {
			return specfile.File{}, err
		}
	} else {
		file.Input.Spec = lens.Spec{
			DiameterMM:         f.diameter,
			CentralThicknessMM: f.thickness,
			RefractiveIndex:    f.index,
			Mode:               lens.ModeRadii,
			R1MM:               f.r1,
			R2MM:               f.r2,
		}
	}

	fl := cmd.Flags()
	spec := &file.Input.Spec
	override := func(name string, dst *float64, v float64) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	override("diameter", &spec.DiameterMM, f.diameter)
	override("ct", &spec.CentralThicknessMM, f.thickness)
	override("index", &spec.RefractiveIndex, f.index)
	override("r1", &spec.R1MM, f.r1)
	override("r2", &spec.R2MM, f.r2)
	if fl.Changed("r1") || fl.Changed("r2") {
		spec.Mode = lens.ModeRadii
	}
	if fl.Changed("power") || fl.Changed("family") {
		spec.Mode = lens.ModePower
		override("power", &spec.PowerD, f.power)
		if f.family != "" {
			spec.Family = lens.Family(f.family)
		}
	}
	if fl.Changed("samples") {
		file.Input.Samples = f.samples
	}
	if file.Frame != nil {
		file.Frame.Lens = *spec
	}
	logger.L().Debug("cli.spec", "spec", fmt.Sprintf("%+v", *spec), "samples", file.Input.Samples)
	return file, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWarnings(w io.Writer, ws []lens.Warning) {
	for _, wn := range ws {
		fmt.Fprintf(w, "warning (%s): %s\n", wn.Kind, wn.Message)
	}
}
