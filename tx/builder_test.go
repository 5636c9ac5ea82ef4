package tx

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/suprasigtest"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chainIDSourceMock struct {
	mock.Mock
}

func (m *chainIDSourceMock) ChainID(ctx context.Context) (uint8, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint8), args.Error(1)
}

func TestBuilderDefaults(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := transferCall(t, suprasigtest.NewAddress(2), 10)

	b := NewBuilder(suprasigtest.NewAddress(1), 5, payload).WithChainID(6)
	b.Now = func() time.Time { return now }
	raw, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxGasAmount, raw.MaxGasAmount)
	assert.Equal(t, DefaultGasUnitPrice, raw.GasUnitPrice)
	assert.Equal(t, uint64(1700000300), raw.ExpirationTimestampSecs)
	assert.Equal(t, uint8(6), raw.ChainID)
	assert.Equal(t, uint64(5), raw.SequenceNumber)
	assert.Equal(t, Single, raw.Context)
}

func TestBuilderOverrides(t *testing.T) {
	raw, err := NewBuilder(suprasigtest.NewAddress(1), 5, transferCall(t, suprasigtest.NewAddress(2), 10)).
		WithChainID(6).
		WithMaxGas(1020).
		WithGasUnitPrice(150).
		WithExpiration(suprasig.UnixTime(1800000000)).
		Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1020), raw.MaxGasAmount)
	assert.Equal(t, uint64(150), raw.GasUnitPrice)
	assert.Equal(t, uint64(1800000000), raw.ExpirationTimestampSecs)
}

func TestBuilderChainID(t *testing.T) {
	payload := transferCall(t, suprasigtest.NewAddress(2), 10)

	cases := map[string]struct {
		explicit    uint8
		sourceID    uint8
		sourceErr   error
		withSource  bool
		wantCalls   int
		wantChainID uint8
		wantErr     *errors.Error
	}{
		"explicit chain id wins": {
			explicit:    6,
			withSource:  true,
			wantChainID: 6,
		},
		"chain id from the source": {
			withSource:  true,
			sourceID:    8,
			wantCalls:   1,
			wantChainID: 8,
		},
		"no chain id and no source": {
			wantErr: errors.ErrChainIDUnavailable,
		},
		"source failure": {
			withSource: true,
			sourceErr:  fmt.Errorf("connection refused"),
			wantCalls:  1,
			wantErr:    errors.ErrChainIDUnavailable,
		},
		"source returns zero": {
			withSource: true,
			wantCalls:  1,
			wantErr:    errors.ErrChainIDUnavailable,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			src := &chainIDSourceMock{}
			src.On("ChainID", mock.Anything).Return(tc.sourceID, tc.sourceErr)

			b := NewBuilder(suprasigtest.NewAddress(1), 0, payload).WithChainID(tc.explicit)
			if tc.withSource {
				b.WithChainIDSource(src)
			}
			raw, err := b.Build(context.Background())
			src.AssertNumberOfCalls(t, "ChainID", tc.wantCalls)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantChainID, raw.ChainID)
		})
	}
}

func TestBuilderRequiresPayload(t *testing.T) {
	_, err := NewBuilder(suprasigtest.NewAddress(1), 0, nil).WithChainID(1).Build(context.Background())
	assert.FieldError(t, err, "Payload", errors.ErrEmpty)
}

func TestBuilderRejectsNegativeExpiration(t *testing.T) {
	_, err := NewBuilder(suprasigtest.NewAddress(1), 0, transferCall(t, suprasigtest.NewAddress(2), 1)).
		WithChainID(1).
		WithExpiration(suprasig.UnixTime(-5)).
		Build(context.Background())
	assert.FieldError(t, err, "Expiration", errors.ErrState)
}
