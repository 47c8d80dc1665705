package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lightning-jet/jet/pkg/config"
)

// writeTestCert writes a self-signed certificate for 127.0.0.1 and returns
// the parsed leaf.
func writeTestCert(t *testing.T, dir, commonName string, notAfter time.Time) (certFile, keyFile string, leaf *x509.Certificate) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certFile = filepath.Join(dir, "ops.crt")
	keyFile = filepath.Join(dir, "ops.key")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(certFile, certPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		t.Fatal(err)
	}

	leaf, err = x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile, leaf
}

// touch moves both files' modification time forward so a reload sees them
// as changed even on filesystems with coarse timestamps.
func touch(t *testing.T, files ...string) {
	t.Helper()
	future := time.Now().Add(time.Minute)
	for _, f := range files {
		if err := os.Chtimes(f, future, future); err != nil {
			t.Fatal(err)
		}
	}
}

func TestServer_ServeTLS(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile, leaf := writeTestCert(t, dir, "jet-ops", time.Now().Add(90*24*time.Hour))

	cfg := config.Default().Server
	cfg.TLS = config.ServerTLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile, MinVersion: "1.2"}
	srv := NewServer(&cfg, testOptions(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool}},
	}

	url := "https://" + ln.Addr().String() + "/health"
	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = client.Get(url)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not answer over TLS: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.TLS == nil || len(resp.TLS.PeerCertificates) == 0 {
		t.Fatal("response carries no TLS state")
	}
	if cn := resp.TLS.PeerCertificates[0].Subject.CommonName; cn != "jet-ops" {
		t.Errorf("peer certificate CN = %q, want jet-ops", cn)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServer_ServeTLSMissingCertificate(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default().Server
	cfg.TLS = config.ServerTLSConfig{
		Enabled:  true,
		CertFile: filepath.Join(dir, "missing.crt"),
		KeyFile:  filepath.Join(dir, "missing.key"),
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	if err := NewServer(&cfg, Options{}).Serve(context.Background(), ln); err == nil {
		t.Fatal("expected error for missing certificate")
	}
}

func TestCertReloader_Reload(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile, _ := writeTestCert(t, dir, "first", time.Now().Add(90*24*time.Hour))

	r := newCertReloader(config.ServerTLSConfig{CertFile: certFile, KeyFile: keyFile}, slog.Default())
	if err := r.start(context.Background()); err != nil {
		t.Fatalf("start() failed: %v", err)
	}

	commonName := func() string {
		cert, err := r.getCertificate(nil)
		if err != nil || cert == nil {
			t.Fatalf("getCertificate() = %v, %v", cert, err)
		}
		return cert.Leaf.Subject.CommonName
	}
	if got := commonName(); got != "first" {
		t.Fatalf("CN = %q, want first", got)
	}

	r.reloadIfChanged()
	if got := commonName(); got != "first" {
		t.Fatalf("CN = %q after unchanged reload, want first", got)
	}

	writeTestCert(t, dir, "second", time.Now().Add(90*24*time.Hour))
	touch(t, certFile, keyFile)
	r.reloadIfChanged()
	if got := commonName(); got != "second" {
		t.Errorf("CN = %q after rotation, want second", got)
	}

	// A broken file keeps the previous pair in service.
	if err := os.WriteFile(certFile, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Minute)
	if err := os.Chtimes(certFile, future, future); err != nil {
		t.Fatal(err)
	}
	r.reloadIfChanged()
	if got := commonName(); got != "second" {
		t.Errorf("CN = %q after failed reload, want second", got)
	}
}

func TestCertReloader_Expired(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile, _ := writeTestCert(t, dir, "old", time.Now().Add(-time.Minute))

	r := newCertReloader(config.ServerTLSConfig{CertFile: certFile, KeyFile: keyFile}, slog.Default())
	if err := r.start(context.Background()); err == nil {
		t.Fatal("expected error for expired certificate")
	}
}

func TestTLSConfig_MinVersion(t *testing.T) {
	r := &certReloader{}

	if got := tlsConfig(config.ServerTLSConfig{MinVersion: "1.2"}, r).MinVersion; got != tls.VersionTLS12 {
		t.Errorf("MinVersion for 1.2 = %x", got)
	}
	if got := tlsConfig(config.ServerTLSConfig{MinVersion: "1.3"}, r).MinVersion; got != tls.VersionTLS13 {
		t.Errorf("MinVersion for 1.3 = %x", got)
	}
	if got := tlsConfig(config.ServerTLSConfig{}, r).MinVersion; got != tls.VersionTLS13 {
		t.Errorf("default MinVersion = %x", got)
	}
}
