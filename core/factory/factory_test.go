package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	URL     string
	Timeout int
}

type sinkConf struct {
	URL     string `json:"url"`
	Timeout int    `json:"timeout_seconds"`
}

func newSinkRegistry(t *testing.T) *Registry[*sink] {
	t.Helper()
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("influx", func(conf map[string]any) (*sink, error) {
		var c sinkConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" {
			return nil, errors.New("url is required")
		}
		return &sink{URL: c.URL, Timeout: c.Timeout}, nil
	}))
	return reg
}

func TestRegistry_Create(t *testing.T) {
	reg := newSinkRegistry(t)
	inst, err := reg.Create(ModuleConfig{Type: "influx", Conf: map[string]any{
		"url":             "http://localhost:8086",
		"timeout_seconds": "5",
	}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8086", inst.URL)
	assert.Equal(t, 5, inst.Timeout)
}

func TestRegistry_Errors(t *testing.T) {
	reg := newSinkRegistry(t)
	assert.Error(t, reg.Register("influx", func(map[string]any) (*sink, error) { return nil, nil }))
	assert.Error(t, reg.Register("nil", nil))

	_, err := reg.Create(ModuleConfig{Type: "graphite"})
	assert.ErrorIs(t, err, ErrUnknownModule)

	_, err = reg.Create(ModuleConfig{Type: "influx"})
	assert.ErrorContains(t, err, "create influx: url is required")
}

func TestRegistry_Names(t *testing.T) {
	reg := newSinkRegistry(t)
	require.NoError(t, reg.Register("file", func(map[string]any) (*sink, error) { return &sink{}, nil }))
	assert.Equal(t, []string{"file", "influx"}, reg.Names())
}
