package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/internal/config"
	"github.com/katalvlaran/ctmcfit/panel"
)

// input is a dataset ready for estimation.
type input struct {
	data      ctmc.Dataset
	numstates int
	labels    []string
}

// loadInput reads either a YAML dataset or a panel CSV.
func loadInput(dataPath, panelPath string, pc config.PanelConfig) (*input, error) {
	switch {
	case dataPath != "" && panelPath != "":
		return nil, errors.New("--data and --panel are mutually exclusive")
	case dataPath != "":
		f, err := ctmc.LoadDataset(dataPath)
		if err != nil {
			return nil, err
		}
		return &input{data: f.Examples, numstates: f.States(), labels: f.Labels}, nil
	case panelPath != "":
		p, enc, err := loadPanel(panelPath, pc)
		if err != nil {
			return nil, err
		}
		return &input{data: p.Data, numstates: enc.Len(), labels: enc.Labels()}, nil
	default:
		return nil, errors.New("one of --data or --panel is required")
	}
}

// loadPanel reads an id,date,label CSV and transforms it into sequences.
func loadPanel(path string, pc config.PanelConfig) (*panel.Panel, *panel.LabelEncoder, error) {
	enc, err := panel.NewLabelEncoder(pc.Labels)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open panel: %w", err)
	}
	defer f.Close()

	records, err := panel.ReadCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	obs, err := panel.Encode(records, enc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	var opts []panel.TransformOption
	if pc.SubjectEnd {
		opts = append(opts, panel.WithSubjectEnd())
	}
	return panel.TableTransform(obs, opts...), enc, nil
}
