// Package specfile reads lens descriptions from YAML files.
package specfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"Sagitta/internal/calc/frame"
	lens "Sagitta/internal/calc/lens"

	"gopkg.in/yaml.v3"
)

type fileDTO struct {
	Lens    lens.Spec `yaml:"lens"`
	Samples int       `yaml:"samples"`
	XMM     *float64  `yaml:"x_mm"`
	Frame   *frameDTO `yaml:"frame"`
}

type frameDTO struct {
	CalibreMM     float64 `yaml:"calibre_mm"`
	FrameHeightMM float64 `yaml:"frame_height_mm"`
	BridgeMM      float64 `yaml:"bridge_mm"`
	MonoPDMM      float64 `yaml:"mono_pd_mm"`
	AllowanceMM   float64 `yaml:"allowance_mm"`
}

// File is a decoded spec file.
type File struct {
	Input lens.Input
	Frame *frame.Input
}

func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read spec %s: %w", path, err)
	}
	f, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses a spec document. Unknown keys are rejected so typos surface.
func Decode(r io.Reader) (File, error) {
	var dto fileDTO
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, errors.New("empty spec file")
		}
		return File{}, fmt.Errorf("parse spec: %w", err)
	}
	return toDomain(dto), nil
}

func toDomain(dto fileDTO) File {
	out := File{Input: lens.Input{Spec: dto.Lens, Samples: dto.Samples, XMM: dto.XMM}}
	if dto.Frame != nil {
		out.Frame = &frame.Input{
			Lens:          dto.Lens,
			CalibreMM:     dto.Frame.CalibreMM,
			FrameHeightMM: dto.Frame.FrameHeightMM,
			BridgeMM:      dto.Frame.BridgeMM,
			MonoPDMM:      dto.Frame.MonoPDMM,
			AllowanceMM:   dto.Frame.AllowanceMM,
		}
	}
	return out
}
