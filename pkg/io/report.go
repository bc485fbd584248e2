package io

import (
	"context"
	"errors"
	"io"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
	"github.com/matzehuels/offpack/pkg/integrations"
)

// Report is the machine-readable summary of a resolution.
type Report struct {
	Packages       []deps.ResolvedPackage    `json:"packages"`
	Optional       []deps.OptionalDependency `json:"optionalDependencies"`
	InstallScripts []deps.InstallScript      `json:"installScripts"`
	Errors         []ReportError             `json:"errors,omitempty"`

	// Incomplete is set when the run was interrupted.
	Incomplete bool `json:"incomplete,omitempty"`
}

// ReportError is one request that could not be resolved.
type ReportError struct {
	Request   deps.Request   `json:"request"`
	Requester deps.Requester `json:"requester"`
	Code      errs.Code      `json:"code"`
	Message   string         `json:"message"`
}

// NewReport summarizes res.
func NewReport(res *deps.Result) Report {
	r := Report{
		Packages:       deps.Packages(res.Cache),
		Optional:       deps.OptionalDependencies(res.Cache),
		InstallScripts: deps.InstallScripts(res.Cache),
		Incomplete:     res.Err != nil,
	}
	for _, e := range res.Errors {
		r.Errors = append(r.Errors, ReportError{
			Request:   e.Request,
			Requester: e.Requester,
			Code:      Classify(e),
			Message:   e.Err.Error(),
		})
	}
	return r
}

// WriteReport encodes r as indented JSON.
func WriteReport(r Report, w io.Writer) error {
	return encode(w, r)
}

// Classify maps a resolution failure to an error code.
func Classify(err error) errs.Code {
	var unsat *deps.UnsatisfiableRangeError
	switch {
	case errors.As(err, &unsat):
		if unsat.Err != nil {
			return errs.ErrCodeInvalidRange
		}
		return errs.ErrCodeUnsatisfiable
	case errors.Is(err, integrations.ErrNotFound):
		return errs.ErrCodeNotFound
	case errors.Is(err, integrations.ErrMalformed):
		return errs.ErrCodeInvalidFormat
	case errors.Is(err, integrations.ErrNetwork):
		return errs.ErrCodeNetwork
	case errors.Is(err, context.DeadlineExceeded):
		return errs.ErrCodeTimeout
	}
	if code := errs.GetCode(err); code != "" {
		return code
	}
	return errs.ErrCodeInternal
}
