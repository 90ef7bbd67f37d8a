package cli

import (
	"fmt"
	"time"

	json "github.com/KevinWang15/go-json5"

	"github.com/solarphys/pfsstrace/internal/batch"
)

// getLeafValue walks a parsed parameter table down the given key path.
func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// parseBatchParams parses a JSON5 (or JSON) batch parameter file and fills a
// batch configuration. Required fields: start_cr, end_cr, alm_folder,
// output_folder. The rest default to the standard tracing parameters.
func parseBatchParams(data []byte) (batch.Config, error) {
	var jsonTable map[string]interface{}
	if err := json.Unmarshal(data, &jsonTable); err != nil {
		return batch.Config{}, fmt.Errorf("parameter file format error: %w", err)
	}

	cfg := batch.Config{
		RSource:  2.5,
		NLines:   100,
		MaxSteps: 1000,
		StepSize: 0.01,
		Workers:  1,
	}
	msg, ok := validateParamsAndFillConfig(jsonTable, &cfg)
	if !ok {
		return batch.Config{}, fmt.Errorf("parameter file: %s", msg)
	}
	return cfg, nil
}

// validateParamsAndFillConfig checks each parameter's presence and type and
// fills cfg, reporting the first problem found.
func validateParamsAndFillConfig(jsonTable map[string]interface{}, cfg *batch.Config) (string, bool) {
	msg := "No problem found in parameter file" // presumed success

	startCR, ok := getLeafValue(jsonTable, "start_cr")
	if !ok {
		return "start_cr: not found", false
	}
	v, ok := startCR.(float64)
	if !ok {
		return "start_cr: is not a number", false
	}
	cfg.StartCR = int(v)

	endCR, ok := getLeafValue(jsonTable, "end_cr")
	if !ok {
		return "end_cr: not found", false
	}
	v, ok = endCR.(float64)
	if !ok {
		return "end_cr: is not a number", false
	}
	cfg.EndCR = int(v)

	almFolder, ok := getLeafValue(jsonTable, "alm_folder")
	if !ok {
		return "alm_folder: not found", false
	}
	cfg.AlmDir, ok = almFolder.(string)
	if !ok {
		return "alm_folder: is not a string", false
	}

	outputFolder, ok := getLeafValue(jsonTable, "output_folder")
	if !ok {
		return "output_folder: not found", false
	}
	cfg.OutputDir, ok = outputFolder.(string)
	if !ok {
		return "output_folder: is not a string", false
	}

	if nLines, ok := getLeafValue(jsonTable, "n_lines"); ok {
		v, ok := nLines.(float64)
		if !ok {
			return "n_lines: is not a number", false
		}
		cfg.NLines = int(v)
	}

	if rSource, ok := getLeafValue(jsonTable, "r_source"); ok {
		v, ok := rSource.(float64)
		if !ok {
			return "r_source: is not a number", false
		}
		cfg.RSource = v
	}

	if stepSize, ok := getLeafValue(jsonTable, "step_size"); ok {
		v, ok := stepSize.(float64)
		if !ok {
			return "step_size: is not a number", false
		}
		cfg.StepSize = v
	}

	if maxSteps, ok := getLeafValue(jsonTable, "max_steps"); ok {
		v, ok := maxSteps.(float64)
		if !ok {
			return "max_steps: is not a number", false
		}
		cfg.MaxSteps = int(v)
	}

	if workers, ok := getLeafValue(jsonTable, "workers"); ok {
		v, ok := workers.(float64)
		if !ok {
			return "workers: is not a number", false
		}
		cfg.Workers = int(v)
	}

	if timeout, ok := getLeafValue(jsonTable, "item_timeout_seconds"); ok {
		v, ok := timeout.(float64)
		if !ok {
			return "item_timeout_seconds: is not a number", false
		}
		cfg.ItemTimeout = time.Duration(v * float64(time.Second))
	}

	return msg, true
}
