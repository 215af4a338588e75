package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	supervisionapp "github.com/pos/backend/internal/application/supervision"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// RegisterService handles till sessions: opening against the shared
// secret, recording nothing in between (sales do that), and the
// reconciled close.
type RegisterService struct {
	scope            TransactionScope
	registerRepo     register.Repository
	settingsRepo     register.SettingsRepository
	gateSettingsRepo supervision.SettingsRepository
}

// NewRegisterService creates a new RegisterService
func NewRegisterService(
	scope TransactionScope,
	registerRepo register.Repository,
	settingsRepo register.SettingsRepository,
	gateSettingsRepo supervision.SettingsRepository,
) *RegisterService {
	return &RegisterService{
		scope:            scope,
		registerRepo:     registerRepo,
		settingsRepo:     settingsRepo,
		gateSettingsRepo: gateSettingsRepo,
	}
}

// Open starts a till session for the cashier. The opening secret is
// shared by the store and verified against the settings hash; a cashier
// with a session already open gets ALREADY_OPEN.
func (s *RegisterService) Open(ctx context.Context, cashierID uuid.UUID, req OpenRegisterRequest) (*RegisterResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.OpeningSecretHash), []byte(req.OpeningSecret)) != nil {
		return nil, shared.ErrInvalidCredentials
	}

	openingAmount := settings.DefaultOpeningAmount
	if req.OpeningAmount != nil {
		openingAmount = *req.OpeningAmount
	}

	var response RegisterResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, err := repos.Registers().FindOpenByCashier(ctx, cashierID)
		if err == nil {
			return shared.ErrAlreadyOpen
		}
		if err != shared.ErrNotFound {
			return err
		}

		registerNumber, err := nextRegisterNumber(ctx, repos.Registers(), time.Now())
		if err != nil {
			return err
		}

		session, err := register.Open(cashierID, registerNumber,
			valueobject.NewMoneyHTG(openingAmount))
		if err != nil {
			return err
		}

		if err := repos.Registers().Save(ctx, session); err != nil {
			return err
		}

		response = ToRegisterResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// nextRegisterNumber allocates the next slot in the daily register
// number sequence. The day's count is only a starting point: a
// concurrent open can commit the same slot first, so taken numbers are
// skipped instead of surfacing the unique index violation.
func nextRegisterNumber(ctx context.Context, repo register.Repository, now time.Time) (string, error) {
	opened, err := repo.CountOpenedOn(ctx, now)
	if err != nil {
		return "", err
	}
	for i := 0; i < orderNumberAttempts; i++ {
		number := register.FormatRegisterNumber(now, int(opened)+1+i)
		exists, err := repo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("CONFLICT", "Could not allocate a unique register number")
}

// Close reconciles and closes the cashier's open session. A drawer
// difference beyond the threshold needs a consumed supervisor approval.
func (s *RegisterService) Close(ctx context.Context, cashierID uuid.UUID, req CloseRegisterRequest) (*RegisterResponse, error) {
	gateSettings, err := s.gateSettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var response RegisterResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.Registers().FindOpenByCashierForUpdate(ctx, cashierID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.ErrNoOpenRegister
			}
			return err
		}

		counted := valueobject.NewMoneyHTG(req.CountedAmount)
		difference := session.PendingDifference(counted)

		check, err := supervision.CheckRequired(gateSettings, supervision.OperationCashClose,
			differencePercent(difference.Amount(), session.ExpectedAmount))
		if err != nil {
			return err
		}
		if check.Required {
			err = supervisionapp.ConsumeApproved(ctx, repos.Validations(), req.ValidationID, supervision.OperationCashClose,
				func(data supervision.PayloadData) bool {
					payload, ok := data.(supervision.CashClosePayload)
					return ok && payload.RegisterID == session.ID
				})
			if err != nil {
				return err
			}
		}

		if _, err := session.Close(counted); err != nil {
			return err
		}
		if err := repos.Registers().Save(ctx, session); err != nil {
			return err
		}

		response = ToRegisterResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// differencePercent expresses a drawer difference as a percentage of
// the expected balance, the unit the close gate threshold is set in.
// Any difference against an empty expected drawer counts as fully off.
func differencePercent(difference, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		if difference.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return difference.Abs().Div(expected.Abs()).Mul(decimal.NewFromInt(100))
}

// Current retrieves the cashier's open session
func (s *RegisterService) Current(ctx context.Context, cashierID uuid.UUID) (*RegisterResponse, error) {
	session, err := s.registerRepo.FindOpenByCashier(ctx, cashierID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrNoOpenRegister
		}
		return nil, err
	}
	response := ToRegisterResponse(session)
	return &response, nil
}

// GetByID retrieves a session by ID
func (s *RegisterService) GetByID(ctx context.Context, id uuid.UUID) (*RegisterResponse, error) {
	session, err := s.registerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRegisterResponse(session)
	return &response, nil
}

// List retrieves sessions with filtering and pagination
func (s *RegisterService) List(ctx context.Context, filter RegisterListFilter) ([]RegisterResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "opened_at"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CashierID != nil {
		domainFilter.Filters["cashier_id"] = *filter.CashierID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	sessions, err := s.registerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.registerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RegisterResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToRegisterResponse(&sessions[i])
	}
	return responses, total, nil
}

// ChangeOpeningSecret rotates the shared opening secret after
// verifying the current one
func (s *RegisterService) ChangeOpeningSecret(ctx context.Context, req ChangeOpeningSecretRequest) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.OpeningSecretHash), []byte(req.CurrentSecret)) != nil {
		return shared.ErrInvalidCredentials
	}

	hash, err := identity.HashPassword(req.NewSecret)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to hash opening secret")
	}
	if err := settings.UpdateOpeningSecret(hash); err != nil {
		return err
	}

	return s.settingsRepo.Save(ctx, settings)
}

// SetDefaultOpeningAmount changes the default opening float
func (s *RegisterService) SetDefaultOpeningAmount(ctx context.Context, req UpdateOpeningFloatRequest) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if err := settings.UpdateDefaultOpeningAmount(req.DefaultOpeningAmount); err != nil {
		return err
	}
	return s.settingsRepo.Save(ctx, settings)
}
