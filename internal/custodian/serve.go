//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package custodian wires the custody server's route handlers to a
// concrete token store, share store, and secondary channel, and
// serves them over TLS. It is shared by the standalone
// svbd-custodian binary and by svbd's own `serve-custodian`
// subcommand, so both start an identical server.
package custodian

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/svalbard/svbd/internal/channel"
	"github.com/svalbard/svbd/internal/custodian/route"
	"github.com/svalbard/svbd/internal/env"
	"github.com/svalbard/svbd/internal/log"
	"github.com/svalbard/svbd/internal/sharestore"
	"github.com/svalbard/svbd/internal/tlsutil"
	"github.com/svalbard/svbd/internal/token"
)

const appName = "svbd custodian"

// Serve builds the custody server from the process's environment
// configuration and runs it until ctx is cancelled or it fails to
// start. It always returns a non-nil error except when ctx cancels a
// clean shutdown.
func Serve(ctx context.Context) error {
	log.Log().Info(appName, "msg", "starting", "port", env.CustodianPort(), "backend", env.CustodianBackend())

	tokens, err := token.New(env.TokenLength(), env.TokenValidity())
	if err != nil {
		return fmt.Errorf("failed to initialize token store: %w", err)
	}

	shares, closeShares, err := openShareStore()
	if err != nil {
		return fmt.Errorf("failed to initialize share store: %w", err)
	}
	defer closeShares()

	ch, err := channel.NewFile(env.ChannelDir())
	if err != nil {
		return fmt.Errorf("failed to initialize secondary channel: %w", err)
	}

	handler := route.New(&route.Deps{Tokens: tokens, Shares: shares, Channel: ch})

	cert, err := loadOrGenerateCert()
	if err != nil {
		return fmt.Errorf("failed to prepare TLS certificate: %w", err)
	}

	srv := &http.Server{
		Addr:      fmt.Sprintf(":%d", env.CustodianPort()),
		Handler:   handler,
		TLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
	}

	go func() {
		<-ctx.Done()
		log.Log().Info(appName, "msg", "shutting down")
		_ = srv.Close()
	}()

	log.Log().Info(appName, "msg", fmt.Sprintf("serving on :%d", env.CustodianPort()))
	if err := srv.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func openShareStore() (sharestore.Store, func(), error) {
	if env.CustodianBackend() == "sqlite" {
		db, err := sharestore.OpenSQLite(env.CustodianSQLitePath())
		if err != nil {
			return nil, func() {}, err
		}
		return db, func() { _ = db.Close() }, nil
	}
	return sharestore.NewMemory(), func() {}, nil
}

// loadOrGenerateCert loads the configured cert/key pair, or generates
// an ephemeral self-signed one for localhost so a zero-config run
// still serves HTTPS.
func loadOrGenerateCert() (tls.Certificate, error) {
	certFile, keyFile := env.CustodianTLSCertFile(), env.CustodianTLSKeyFile()
	if certFile != "" && keyFile != "" {
		return tls.LoadX509KeyPair(certFile, keyFile)
	}
	return tlsutil.SelfSigned("localhost", "127.0.0.1")
}
