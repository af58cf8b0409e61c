package wrapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/zk-liquidity-pool/pkg/config"
	"github.com/code-payments/zk-liquidity-pool/pkg/config/memory"
)

// testWrapper walks a wrapper through defaults, overrides, errors and
// unsupported source types
func testWrapper[T any](t *testing.T, mock *memory.Config, wrapper config.Value[T], defaultValue, overridenValue T, rawOverride interface{}) {
	ctx := context.Background()

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(ctx))

	// The overriden value is returned when set
	mock.SetValue(rawOverride)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(ctx)
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The default value is returned when the override no longer has a value
	mock.StopInducingErrors()
	mock.ClearValue()
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Return an unsupported source value type
	mock.SetValue(struct{}{})
	val, err = wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, defaultValue, val)
}

func TestBoolConfig(t *testing.T) {
	mock := memory.NewConfig(nil)
	testWrapper(t, mock, NewBoolConfig(mock, true), true, false, false)

	mock = memory.NewConfig(nil)
	testWrapper(t, mock, NewBoolConfig(mock, true), true, false, []byte("false"))
}

func TestUint64Config(t *testing.T) {
	mock := memory.NewConfig(nil)
	testWrapper(t, mock, NewUint64Config(mock, 1024), 1024, 16, uint64(16))

	mock = memory.NewConfig(nil)
	testWrapper(t, mock, NewUint64Config(mock, 1024), 1024, 16, uint(16))

	mock = memory.NewConfig(nil)
	testWrapper(t, mock, NewUint64Config(mock, 1024), 1024, 16, []byte("16"))

	mock = memory.NewConfig([]byte("-1"))
	_, err := NewUint64Config(mock, 1024).GetSafe(context.Background())
	assert.Error(t, err)
}

func TestDurationConfig(t *testing.T) {
	mock := memory.NewConfig(nil)
	testWrapper(t, mock, NewDurationConfig(mock, 5*time.Second), 5*time.Second, 250*time.Millisecond, 250*time.Millisecond)

	mock = memory.NewConfig(nil)
	testWrapper(t, mock, NewDurationConfig(mock, 5*time.Second), 5*time.Second, 250*time.Millisecond, []byte("250ms"))

	mock = memory.NewConfig(nil)
	testWrapper(t, mock, NewDurationConfig(mock, 5*time.Second), 5*time.Second, 30*time.Second, []byte("30"))

	mock = memory.NewConfig([]byte("soon"))
	_, err := NewDurationConfig(mock, 5*time.Second).GetSafe(context.Background())
	assert.Error(t, err)
}
