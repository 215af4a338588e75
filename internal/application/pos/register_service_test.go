package pos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func (f *fixture) registerService(t *testing.T, openingSecret string, defaultFloat float64) *RegisterService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(openingSecret), bcrypt.MinCost)
	require.NoError(t, err)

	settings := &register.Settings{
		BaseEntity:           shared.NewBaseEntity(),
		OpeningSecretHash:    string(hash),
		DefaultOpeningAmount: decimal.NewFromFloat(defaultFloat),
	}
	f.registerSettings = &memRegisterSettingsRepo{settings: settings}
	return NewRegisterService(f.scope, f.registers, f.registerSettings, f.gateSettings)
}

func TestRegisterService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a session with the default float", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)

		resp, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		assert.Equal(t, "open", resp.Status)
		assert.True(t, resp.OpeningAmount.Equal(decf(500)))
		assert.True(t, resp.ExpectedAmount.Equal(decf(500)))
		assert.Equal(t, register.FormatRegisterNumber(time.Now(), 1), resp.RegisterNumber)
	})

	t.Run("explicit opening amount overrides the default", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)

		amount := decf(750)
		resp, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234", OpeningAmount: &amount})
		require.NoError(t, err)
		assert.True(t, resp.OpeningAmount.Equal(decf(750)))
	})

	t.Run("wrong secret fails with INVALID_CREDENTIALS", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)

		_, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "9999"})
		assert.Equal(t, shared.ErrInvalidCredentials, err)
	})

	t.Run("a cashier cannot open two sessions", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)
		cashierID := uuid.New()

		_, err := svc.Open(ctx, cashierID, OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		_, err = svc.Open(ctx, cashierID, OpenRegisterRequest{OpeningSecret: "1234"})
		assert.Equal(t, shared.ErrAlreadyOpen, err)
	})

	t.Run("session numbers follow the daily sequence", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 0)

		first, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)
		second, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		assert.Equal(t, register.FormatRegisterNumber(time.Now(), 1), first.RegisterNumber)
		assert.Equal(t, register.FormatRegisterNumber(time.Now(), 2), second.RegisterNumber)
	})

	t.Run("a taken sequence slot is skipped", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 0)

		// One session exists but holds the second slot, as if a
		// concurrent open committed first. The day's count points at a
		// taken number.
		taken, err := register.Open(uuid.New(),
			register.FormatRegisterNumber(time.Now(), 2), valueobject.ZeroHTG())
		require.NoError(t, err)
		require.NoError(t, f.registers.Save(ctx, taken))

		resp, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)
		assert.Equal(t, register.FormatRegisterNumber(time.Now(), 3), resp.RegisterNumber)
	})
}

func TestRegisterService_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("close within threshold records the difference", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)
		cashierID := uuid.New()

		_, err := svc.Open(ctx, cashierID, OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		resp, err := svc.Close(ctx, cashierID, CloseRegisterRequest{CountedAmount: decf(497)})
		require.NoError(t, err)

		assert.Equal(t, "closed", resp.Status)
		require.NotNil(t, resp.Difference)
		assert.True(t, resp.Difference.Equal(decf(-3)), "difference = %s", resp.Difference)
		assert.NotNil(t, resp.ClosedAt)
	})

	t.Run("difference beyond threshold needs a consumed approval", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)
		cashierID := uuid.New()

		opened, err := svc.Open(ctx, cashierID, OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		_, err = svc.Close(ctx, cashierID, CloseRegisterRequest{CountedAmount: decf(450)})
		assert.Equal(t, shared.ErrValidationRequired, err)

		validation := f.approvedValidation(t, supervision.CashClosePayload{RegisterID: opened.ID, Difference: decf(-50)})
		resp, err := svc.Close(ctx, cashierID, CloseRegisterRequest{
			CountedAmount: decf(450),
			ValidationID:  &validation.ID,
		})
		require.NoError(t, err)
		assert.True(t, resp.Difference.Equal(decf(-50)))
		assert.True(t, validation.Consumed)
	})

	t.Run("gate threshold is a percentage of the expected balance", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 10500)
		busyCashier := uuid.New()

		_, err := svc.Open(ctx, busyCashier, OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		// 90 short of 10,500 is under 1 percent: no approval needed.
		resp, err := svc.Close(ctx, busyCashier, CloseRegisterRequest{CountedAmount: decf(10410)})
		require.NoError(t, err)
		assert.True(t, resp.Difference.Equal(decf(-90)))

		f2 := newFixture()
		svc2 := f2.registerService(t, "1234", 50)
		smallCashier := uuid.New()

		_, err = svc2.Open(ctx, smallCashier, OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		// 10 short of 50 is 20 percent: the gate trips.
		_, err = svc2.Close(ctx, smallCashier, CloseRegisterRequest{CountedAmount: decf(40)})
		assert.Equal(t, shared.ErrValidationRequired, err)
	})

	t.Run("approval for another session is not accepted", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)
		cashierID := uuid.New()

		_, err := svc.Open(ctx, cashierID, OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)

		validation := f.approvedValidation(t, supervision.CashClosePayload{RegisterID: uuid.New(), Difference: decf(-50)})
		_, err = svc.Close(ctx, cashierID, CloseRegisterRequest{
			CountedAmount: decf(450),
			ValidationID:  &validation.ID,
		})
		assert.Equal(t, shared.ErrValidationRequired, err)
	})

	t.Run("closing without an open session fails", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 500)

		_, err := svc.Close(ctx, uuid.New(), CloseRegisterRequest{CountedAmount: decf(100)})
		assert.Equal(t, shared.ErrNoOpenRegister, err)
	})
}

func TestRegisterService_Current(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.registerService(t, "1234", 0)
	cashierID := uuid.New()

	_, err := svc.Current(ctx, cashierID)
	assert.Equal(t, shared.ErrNoOpenRegister, err)

	opened, err := svc.Open(ctx, cashierID, OpenRegisterRequest{OpeningSecret: "1234"})
	require.NoError(t, err)

	current, err := svc.Current(ctx, cashierID)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, current.ID)
}

func TestRegisterService_Settings(t *testing.T) {
	ctx := context.Background()

	t.Run("rotating the opening secret verifies the current one", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 0)

		err := svc.ChangeOpeningSecret(ctx, ChangeOpeningSecretRequest{CurrentSecret: "wrong", NewSecret: "5678"})
		assert.Equal(t, shared.ErrInvalidCredentials, err)

		require.NoError(t, svc.ChangeOpeningSecret(ctx, ChangeOpeningSecretRequest{CurrentSecret: "1234", NewSecret: "5678"}))

		_, err = svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234"})
		assert.Equal(t, shared.ErrInvalidCredentials, err)

		_, err = svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "5678"})
		require.NoError(t, err)
	})

	t.Run("default opening float can be changed", func(t *testing.T) {
		f := newFixture()
		svc := f.registerService(t, "1234", 100)

		require.NoError(t, svc.SetDefaultOpeningAmount(ctx, UpdateOpeningFloatRequest{DefaultOpeningAmount: decf(250)}))

		resp, err := svc.Open(ctx, uuid.New(), OpenRegisterRequest{OpeningSecret: "1234"})
		require.NoError(t, err)
		assert.True(t, resp.OpeningAmount.Equal(decf(250)))
	})
}
