package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	enabledName string
	execPath    string
	disabled    string
	err         error
}

func (service *fakeService) GetConfigDir() (string, error) { return "", nil }

func (service *fakeService) EnableAutostart(appName, execPath string) error {
	service.enabledName = appName
	service.execPath = execPath
	return service.err
}

func (service *fakeService) DisableAutostart(appName string) error {
	service.disabled = appName
	return service.err
}

func TestSetAutostart(t *testing.T) {
	service := &fakeService{}

	require.NoError(t, SetAutostart(service, "sitless", true))
	assert.Equal(t, "sitless", service.enabledName)
	assert.NotEmpty(t, service.execPath)

	require.NoError(t, SetAutostart(service, "sitless", false))
	assert.Equal(t, "sitless", service.disabled)

	service.err = errors.New("denied")
	assert.Error(t, SetAutostart(service, "sitless", false))
}

func TestSingleInstanceGuard(t *testing.T) {
	name := "sitless-test-" + time.Now().Format("150405.000000000")
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	defer guard.Release()

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("sitless")
	assert.Equal(t, first, portFromName("sitless"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}
