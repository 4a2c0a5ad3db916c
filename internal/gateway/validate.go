package gateway

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"contestScope/internal/model"
)

// RequestValidator is the injected structural-validation collaborator. The
// gateway only ever uses these three operations; callers supply a concrete
// implementation.
type RequestValidator interface {
	ValidateRequest(operation string, contest model.ContestIdentifier, caller string) error
	ValidateType(name string, value interface{}) error
	AssertValid(ok bool, message string) error
}

// basicValidator checks addresses and identity fields structurally.
type basicValidator struct{}

// NewBasicValidator returns the default structural validator.
func NewBasicValidator() RequestValidator {
	return basicValidator{}
}

func (basicValidator) ValidateRequest(operation string, contest model.ContestIdentifier, caller string) error {
	if contest.ContestID == "" {
		return model.NewChainError(model.CodeValidationFailed, operation+": contest id is required")
	}
	if contest.ChainID == 0 {
		return model.NewChainError(model.CodeValidationFailed, operation+": chain id is required")
	}
	if !common.IsHexAddress(contest.Addresses.Registrar) {
		return model.NewChainError(model.CodeValidationFailed, operation+": registrar address is invalid")
	}
	if caller != "" && !common.IsHexAddress(caller) {
		return model.NewChainError(model.CodeValidationFailed,
			fmt.Sprintf("%s: caller address %q is invalid", operation, caller))
	}
	return nil
}

func (basicValidator) ValidateType(name string, value interface{}) error {
	if value == nil {
		return model.NewChainError(model.CodeValidationFailed, name+" must not be nil")
	}
	return nil
}

func (basicValidator) AssertValid(ok bool, message string) error {
	if !ok {
		return model.NewChainError(model.CodeValidationFailed, message)
	}
	return nil
}
