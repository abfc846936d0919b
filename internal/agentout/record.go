// Package agentout reads the structured record an external model call writes
// for each item folder.
//
// The artifact is a single UTF-8 text record of the form
// `price ||| html ||| condition_id`. The producing model is not
// schema-constrained, so the record is treated as untrusted: this package only
// checks the field count and leaves semantic validation to the joiner.
package agentout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bindery/internal/services"
)

// Delimiter separates the three record fields. The surrounding spaces are part
// of the contract: a bare "|||" inside field text does not split the record.
const Delimiter = " ||| "

// Record holds the raw agent output for one folder. Fields are unvalidated
// strings straight from the artifact.
type Record struct {
	Folder          string
	Price           string
	DescriptionHTML string
	ConditionID     string
}

// Path returns the agent output location for a folder under the results dir.
func Path(resultsDir, folder string) string {
	return filepath.Join(resultsDir, folder+".txt")
}

// Load reads and splits the agent output for a folder. No semantic validation
// of field contents happens here.
func Load(resultsDir, folder string) (Record, error) {
	path := Path(resultsDir, folder)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, services.Wrap(services.ErrAgentOutputMissing, services.StageAgentOutput, "load", path, nil)
		}
		return Record{}, services.Wrap(services.ErrAgentOutputMissing, services.StageAgentOutput, "load", path, err)
	}

	raw := strings.TrimSpace(string(data))
	parts := strings.Split(raw, Delimiter)
	if len(parts) != 3 {
		return Record{}, services.Wrap(
			services.ErrAgentOutputMalformed,
			services.StageAgentOutput,
			"parse",
			fmt.Sprintf("%s: expected 3 fields split on %q, got %d", filepath.Base(path), Delimiter, len(parts)),
			nil,
		)
	}

	return Record{
		Folder:          folder,
		Price:           strings.TrimSpace(parts[0]),
		DescriptionHTML: strings.TrimSpace(parts[1]),
		ConditionID:     strings.TrimSpace(parts[2]),
	}, nil
}
