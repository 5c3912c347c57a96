package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// getCertificates loads the client certificate, both files must be set
// for a certificate to be presented
func getCertificates(sslCrtFile, sslKeyFile string) ([]tls.Certificate, error) {
	if sslCrtFile == "" || sslKeyFile == "" {
		return nil, nil
	}
	certificate, err := tls.LoadX509KeyPair(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load client certificate")
	}
	return []tls.Certificate{certificate}, nil
}

func getCaCert(sslCaFile string) (*x509.CertPool, error) {
	bytes, err := os.ReadFile(sslCaFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read ca file")
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(bytes) {
		return nil, errors.Errorf("no certificates found in %s", sslCaFile)
	}
	return caCertPool, nil
}

// getTlsConfig builds the transport for the client; without any ssl
// files the default transport settings are used
func getTlsConfig(sslCaFile, sslCrtFile, sslKeyFile string) (*http.Transport, error) {
	if sslCaFile == "" && sslCrtFile == "" && sslKeyFile == "" {
		return &http.Transport{}, nil
	}
	tlsConfig := &tls.Config{
		// TLS versions below 1.2 are considered insecure
		// see https://www.rfc-editor.org/rfc/rfc7525.txt for details
		MinVersion: tls.VersionTLS12,
	}
	if sslCaFile != "" {
		caCertPool, err := getCaCert(sslCaFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = caCertPool
	}
	certificates, err := getCertificates(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, err
	}
	tlsConfig.Certificates = certificates
	return &http.Transport{TLSClientConfig: tlsConfig}, nil
}
