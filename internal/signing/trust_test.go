package signing_test

import (
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/signing"
)

func TestTrustStore_AddCertificatesFromPEM(t *testing.T) {
	ca := newKeyPair(t, "Test CA", nil, true)
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca.cert.Raw})

	store := signing.NewTrustStore()
	require.NoError(t, store.AddCertificatesFromPEM(data))
	assert.Equal(t, 1, store.Len())

	require.Error(t, store.AddCertificatesFromPEM([]byte("garbage")))
}

func TestLoadTrustStore(t *testing.T) {
	ca := newKeyPair(t, "Test CA", nil, true)
	path := filepath.Join(t.TempDir(), "roots.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca.cert.Raw}), 0o600))

	store, err := signing.LoadTrustStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	_, err = signing.LoadTrustStore(filepath.Join(t.TempDir(), "missing.pem"))
	require.Error(t, err)
}

func TestTrustStore_VerifyChain(t *testing.T) {
	ca := newKeyPair(t, "Test CA", nil, true)
	leaf := newKeyPair(t, "Mario Rossi", ca, false)
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	chain, err := signing.NewTrustStore(ca.cert).VerifyChain(leaf.cert, nil, at)
	require.NoError(t, err)
	assert.Len(t, chain, 2)

	_, err = signing.NewTrustStore().VerifyChain(leaf.cert, nil, at)
	require.Error(t, err)

	_, err = signing.NewTrustStore(ca.cert).VerifyChain(nil, nil, at)
	require.Error(t, err)
}

func TestTrustStore_NilLen(t *testing.T) {
	var store *signing.TrustStore
	assert.Equal(t, 0, store.Len())
}
