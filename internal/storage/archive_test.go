package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/loan-servicing/internal/config"
)

func TestObjectKey(t *testing.T) {
	userID := uuid.MustParse("6a1f8b3e-1c1d-4f0e-9a55-0f6c1b2d3e4f")
	at := time.Unix(0, 1700000000000000000)

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"plain name", "contratos.xlsx", "imports/6a1f8b3e-1c1d-4f0e-9a55-0f6c1b2d3e4f/contracts/1700000000000000000-contratos.xlsx"},
		{"strips directories", "../../etc/passwd", "imports/6a1f8b3e-1c1d-4f0e-9a55-0f6c1b2d3e4f/contracts/1700000000000000000-passwd"},
		{"windows path", `C:\Users\ana\recebimentos.csv`, "imports/6a1f8b3e-1c1d-4f0e-9a55-0f6c1b2d3e4f/contracts/1700000000000000000-recebimentos.csv"},
		{"empty name", "", "imports/6a1f8b3e-1c1d-4f0e-9a55-0f6c1b2d3e4f/contracts/1700000000000000000-upload"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ObjectKey(userID, "contracts", tc.filename, at))
		})
	}
}

func TestNewArchive_DisabledWithoutEndpoint(t *testing.T) {
	a, err := NewArchive(context.Background(), config.S3Config{})
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestArchive_NilStoresNothing(t *testing.T) {
	var a *Archive
	loc, err := a.Store(context.Background(), uuid.New(), "receipts", "r.csv", "text/csv", strings.NewReader("a,b"), 3)
	require.NoError(t, err)
	assert.Empty(t, loc)
}
