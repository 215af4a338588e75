package supervision

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckResult is the outcome of a gate pre-check
type CheckResult struct {
	Required  bool
	Threshold decimal.Decimal
}

// CheckRequired decides whether an operation needs supervisor
// approval under the given settings. value carries the magnitude the
// thresholds apply to: discount percent, drawer difference as a
// percentage of the expected balance, or absolute stock delta; it is
// ignored for flag-gated operations.
func CheckRequired(settings *Settings, opType OperationType, value decimal.Decimal) (CheckResult, error) {
	if settings == nil {
		return CheckResult{}, shared.NewDomainError("VALIDATION_ERROR", "Validation settings are not loaded")
	}

	switch opType {
	case OperationDiscount:
		return CheckResult{
			Required:  value.GreaterThan(settings.DiscountThreshold),
			Threshold: settings.DiscountThreshold,
		}, nil
	case OperationCashClose:
		return CheckResult{
			Required:  value.Abs().GreaterThan(settings.CashDifferenceThreshold),
			Threshold: settings.CashDifferenceThreshold,
		}, nil
	case OperationStockAdjust:
		threshold := decimal.NewFromInt(int64(settings.StockAdjustThreshold))
		return CheckResult{
			Required:  value.Abs().GreaterThan(threshold),
			Threshold: threshold,
		}, nil
	case OperationSaleCancel:
		return CheckResult{Required: settings.RequireSaleCancel}, nil
	case OperationPriceChange:
		return CheckResult{Required: settings.RequirePriceChange}, nil
	case OperationRefund:
		return CheckResult{Required: settings.RequireRefund}, nil
	case OperationProductDelete:
		return CheckResult{Required: settings.RequireProductDelete}, nil
	default:
		return CheckResult{}, shared.NewDomainError("VALIDATION_ERROR", "Unknown operation type")
	}
}
