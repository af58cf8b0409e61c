package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/zk-liquidity-pool/pkg/config"
)

func TestConfig(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"

	t.Setenv(env, "value")
	v, err := NewConfig(env).Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	// Keys are upper cased
	v, err = NewConfig("env_config_test_var").Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	t.Setenv(env, "")
	v, err = NewConfig(env).Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	ctx := context.Background()

	t.Setenv("ENV_CONFIG_TEST_TIMEOUT", "2s")
	t.Setenv("ENV_CONFIG_TEST_STRIPES", "64")
	t.Setenv("ENV_CONFIG_TEST_DISABLED", "true")

	assert.Equal(t, 2*time.Second, NewDurationConfig("ENV_CONFIG_TEST_TIMEOUT", time.Second).Get(ctx))
	assert.EqualValues(t, 64, NewUint64Config("ENV_CONFIG_TEST_STRIPES", 1).Get(ctx))
	assert.True(t, NewBoolConfig("ENV_CONFIG_TEST_DISABLED", false).Get(ctx))

	assert.Equal(t, time.Second, NewDurationConfig("ENV_CONFIG_TEST_UNSET", time.Second).Get(ctx))
}
