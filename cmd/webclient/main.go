//go:build js && wasm

package main

import (
	"context"
	"log/slog"
	"os"

	webclient "github.com/violetrx/webclient"
	"github.com/violetrx/webclient/internal/bootstrap"
	"github.com/violetrx/webclient/internal/jsbridge"
	"github.com/violetrx/webclient/internal/rxclient"
)

var version = "dev"

func main() {
	doc := jsbridge.NewDocument()
	cfg, cfgErr := jsbridge.ReadClientConfig(doc, webclient.ConfigElementID)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	logger.Debug("web client starting", "version", version)
	if cfgErr != nil {
		logger.Warn("using default client config", "error", cfgErr)
	}

	c, err := bootstrap.New(bootstrap.Deps{
		Assets:   &jsbridge.HTTPAsset{URL: jsbridge.ResolveURL(cfg.AssetURL)},
		Module:   jsbridge.NewModule(webclient.GlueGlobal, logger),
		Dial:     rxclient.Dial,
		Document: doc,
		Logger:   logger,
	}, cfg.Options(jsbridge.Hostname()))
	if err != nil {
		logger.Error("create controller", "error", err)
		return
	}

	if err = c.Run(context.Background()); err != nil {
		logger.Debug("startup finished with error", "kind", bootstrap.KindOf(err))
	}

	// keep the crash watch and frame refresh alive
	select {}
}
