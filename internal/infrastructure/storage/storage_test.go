package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/pkg/config"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Storage: "Memory"}}
	repos, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer repos.Close()

	assert.Equal(t, KindMemory, repos.Kind)
	cats, err := repos.Categories.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, cats, 5)
}

func TestOpen_TipoDesconocido(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Storage: "sqlite"}}
	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "sqlite")
}

func TestNewMemory_TxCompartido(t *testing.T) {
	repos := NewMemory(time.Now())
	err := repos.Tx.Run(context.Background(), func(r repository.TxRepos) error {
		assert.NotNil(t, r.Quotes)
		assert.NotNil(t, r.Plans)
		return nil
	})
	assert.NoError(t, err)
}
