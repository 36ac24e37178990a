package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matzehuels/swcatalog/internal/config"
	errs "github.com/matzehuels/swcatalog/pkg/errors"
)

// Exit statuses by error category.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
	exitRemote   = 4
	exitRejected = 5
	exitCanceled = 130 // shell convention for SIGINT
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitCanceled
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidID, errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidDomain:
		return exitUsage
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return exitNotFound
	case errs.ErrCodeNetwork, errs.ErrCodeTimeout, errs.ErrCodeTruncated:
		return exitRemote
	case errs.ErrCodeRejected:
		return exitRejected
	}
	return exitFailure
}

// PrintError writes err to w without error-code prefixes, plus a hint for
// configuration errors.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errs.UserMessage(err))
	if errs.Is(err, errs.ErrCodeInvalidConfig) {
		fmt.Fprintln(w, StyleDim.Render("  settings are read from "+config.EnvDomain+", "+config.EnvKey+" and the other FRESH_* variables"))
	}
}
