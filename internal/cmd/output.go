package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rigup-dev/rigup/internal/envelope"
)

// finish writes the command result to stdout. With --json the result is
// wrapped in a versioned envelope; otherwise the human printer runs.
func finish(command, runID string, data any, human func()) error {
	if jsonOutput {
		return writeEnvelope(envelope.New(command, data, runID))
	}
	human()
	return nil
}

// finishErr reports a command failure. With --json a failure envelope is
// written to stdout; the error is returned either way so the process exit
// code reflects the failure.
func finishErr(command string, err error) error {
	if jsonOutput {
		if werr := writeEnvelope(envelope.NewFailure(command, err, "")); werr != nil {
			return werr
		}
	}
	return err
}

func writeEnvelope(env envelope.Envelope) error {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
