package nntp

import (
	"crypto/tls"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Default NNTP ports.
const (
	DefaultPort    = 119
	DefaultTLSPort = 563 // NNTPS
)

// ConnectOptions configures a Client. The options are immutable for the
// lifetime of the Client.
//
// The zero value of every field except Hostname has a usable default.
type ConnectOptions struct {
	// Hostname of the news server. Required.
	Hostname string

	// Port to connect to. Zero selects 119, or 563 when TLS is set.
	Port int

	// TLS wraps the connection in TLS.
	TLS bool

	// TLSConfig is the optional TLS configuration. ServerName defaults to
	// Hostname.
	TLSConfig *tls.Config

	// DialTimeout bounds the TCP dial (and TLS handshake). Zero means no
	// limit beyond the dial context.
	DialTimeout time.Duration

	// Logger receives protocol-level debug logging. Nil discards. There is
	// no process-wide logger; each Client logs only here.
	Logger *slog.Logger
}

func (o ConnectOptions) addr() string {
	port := o.Port
	if port == 0 {
		port = DefaultPort
		if o.TLS {
			port = DefaultTLSPort
		}
	}
	return net.JoinHostPort(o.Hostname, strconv.Itoa(port))
}

func (o ConnectOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o ConnectOptions) tlsConfig() *tls.Config {
	cfg := o.TLSConfig
	if cfg == nil {
		cfg = &tls.Config{}
	} else {
		cfg = cfg.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = o.Hostname
	}
	return cfg
}
