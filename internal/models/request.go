package models

import (
	"github.com/go-playground/validator/v10"
)

// ConvertMode selects the conversion pipeline.
type ConvertMode string

const (
	ModeText  ConvertMode = "text"
	ModeTable ConvertMode = "table"
)

// ConversionRequest is the inbound conversion request after multipart
// decoding. Field constraints are enforced with validator tags before the
// request enters a pipeline.
type ConversionRequest struct {
	FileName string      `json:"file_name" validate:"required"`
	Mode     ConvertMode `json:"mode" validate:"required,oneof=text table"`
	Language string      `json:"language" validate:"required,min=2,max=8"`

	// Pages is the optional 1-indexed page selection. Empty means all
	// pages. Range checking against the document happens in the resolver,
	// not here.
	Pages []int `json:"pages,omitempty"`

	// Threshold is the confidence cutoff override, 0-100.
	Threshold int `json:"threshold" validate:"gte=0,lte=100"`
}

var validate = validator.New()

// Validate checks field constraints and returns a ValidationError with a
// human-readable message on the first violation.
func (r *ConversionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return WrapError(KindValidation, err, "invalid conversion request")
	}
	return nil
}
