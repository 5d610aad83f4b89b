package domain

import (
	"errors"
	"fmt"

	"github.com/tair/commerce-core/pkg/money"
)

// Sentinel errors for the strict checkout apply path. The bulk path skips
// silently instead; see the usecase package.
var (
	ErrDiscountNotFound        = errors.New("discount not found")
	ErrAlreadyApplied          = errors.New("discount is already applied to this order")
	ErrNotUsableAtCheckout     = errors.New("discount cannot be used at checkout")
	ErrProductDisallowsCodes   = errors.New("product does not allow the use of a discount code")
	ErrWrongUser               = errors.New("discount belongs to someone else")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique discount code")
)

// BelowMinimumError reports a subtotal under the discount's minimum. The
// message carries the minimum so checkout can surface it verbatim.
type BelowMinimumError struct {
	Minimum money.Money
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("order subtotal is below the %s minimum for this discount", e.Minimum)
}
