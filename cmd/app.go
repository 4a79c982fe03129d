// Package cmd implements the CLI application to query and maintain an account
// book.
package cmd

import (
	"context"
	"flag"
	"fmt"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/felixmokross/cashfolio2-sub000/coinbase"
	"github.com/felixmokross/cashfolio2-sub000/currencylayer"
	"github.com/felixmokross/cashfolio2-sub000/eodhd"
	"github.com/felixmokross/cashfolio2-sub000/store"
	"github.com/google/subcommands"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&accountsCmd{},
	&balanceSheetCmd{},
	&convertCmd{},
	&incomeCmd{},
	&txCmd{},
}

// as a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (defaults to config.yaml)")
var bookID = flag.String("book", "", "ID of the account book to operate on")

// the CLI keeps its caches in-process; a server deployment would inject a
// shared cache here instead.
var appCache = cashfolio.NewMemoryCache()

// openSystem wires the store, the feeds and the engine for the selected book.
func openSystem(ctx context.Context) (*cashfolio.System, *store.BookSource, func(), error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if *bookID == "" {
		return nil, nil, nil, fmt.Errorf("no account book selected, use -book")
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	source := st.Book(*bookID)

	book, err := source.AccountBook(ctx)
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}

	fx := currencylayer.New(cfg.Feeds.FXAPIKey)
	if cfg.Feeds.FXBaseURL != "" {
		fx = currencylayer.NewWithBaseURL(cfg.Feeds.FXAPIKey, cfg.Feeds.FXBaseURL)
	}
	crypto := coinbase.New()
	if cfg.Feeds.CryptoBaseURL != "" {
		crypto = coinbase.NewWithBaseURL(cfg.Feeds.CryptoBaseURL)
	}
	securities := eodhd.New(cfg.Feeds.SecurityAPIKey)
	if cfg.Feeds.SecurityBaseURL != "" {
		securities = eodhd.NewWithBaseURL(cfg.Feeds.SecurityAPIKey, cfg.Feeds.SecurityBaseURL)
	}

	rates := cashfolio.NewRates(cfg.BaseCurrency, appCache, fx, crypto, securities)
	system, err := cashfolio.NewSystem(book, source, rates, appCache)
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	return system, source, func() { st.Close() }, nil
}
