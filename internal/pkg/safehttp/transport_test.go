package safehttp

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})

	assert.Equal(t, DefaultTimeout, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, tr.TLSClientConfig, "certificate verification must stay on by default")
}

func TestNewClient_InsecureOptIn(t *testing.T) {
	c := NewClient(Options{InsecureSkipVerify: true, Timeout: time.Second})

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.TLSClientConfig)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, time.Second, c.Timeout)
}

func TestNewClient_Tracing(t *testing.T) {
	c := NewClient(Options{Tracing: true})

	_, ok := c.Transport.(*otelhttp.Transport)
	assert.True(t, ok)
}

func TestNewClient_DenyPrivate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Run("loopback rejected", func(t *testing.T) {
		c := NewClient(Options{DenyPrivate: true})
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, err = c.Do(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access to private IP")
	})

	t.Run("loopback allowed without guard", func(t *testing.T) {
		c := NewClient(Options{})
		resp, err := c.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestNewClient_DenyPrivateThroughProxy(t *testing.T) {
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "via proxy "+r.URL.Host)
	}))
	defer proxySrv.Close()

	proxyURL, err := url.Parse(proxySrv.URL)
	require.NoError(t, err)
	c := NewClient(Options{DenyPrivate: true, Proxy: http.ProxyURL(proxyURL)})

	t.Run("loopback proxy allowed for public target", func(t *testing.T) {
		resp, err := c.Get("http://93.184.216.34/api/v2/whoami")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "via proxy 93.184.216.34", string(body))
	})

	t.Run("private target still rejected", func(t *testing.T) {
		_, err := c.Get("http://10.1.2.3/api/v2/whoami")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access to private IP")
	})
}

func TestNewClient_VerifiesCertificates(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := NewClient(Options{}).Get(srv.URL)
	require.Error(t, err)

	var certErr *tls.CertificateVerificationError
	assert.ErrorAs(t, err, &certErr)

	resp, err := NewClient(Options{InsecureSkipVerify: true}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
}
