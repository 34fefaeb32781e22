package main

import (
	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/executor"
	"github.com/AntonStoeckl/docquery-go/docquery/normalizer"
	"github.com/AntonStoeckl/docquery-go/docquery/parser"
	"github.com/AntonStoeckl/docquery-go/docquery/queryservice"
)

func (a *app) newService(collection docquery.Collection, executorOptions ...executor.Option) (*queryservice.Service, error) {
	parserOptions := []parser.Option{
		parser.WithCollection(a.cfg.Collection),
		parser.WithLogger(a.logger),
	}
	if a.cfg.Parser.Balanced {
		parserOptions = append(parserOptions, parser.WithBalancedParentheses())
	}

	p, err := parser.New(parserOptions...)
	if err != nil {
		return nil, err
	}

	e, err := executor.New(append([]executor.Option{executor.WithLogger(a.logger)}, executorOptions...)...)
	if err != nil {
		return nil, err
	}

	normalizerOptions := []normalizer.Option{normalizer.WithLogger(a.logger)}
	if a.cfg.Normalize.Timezone != "" {
		normalizerOptions = append(normalizerOptions, normalizer.WithLocationName(a.cfg.Normalize.Timezone))
	}

	n, err := normalizer.New(normalizerOptions...)
	if err != nil {
		return nil, err
	}

	return queryservice.New(
		collection,
		queryservice.WithParser(p),
		queryservice.WithExecutor(e),
		queryservice.WithNormalizer(n),
		queryservice.WithNormalizedFields(a.cfg.Normalize.Fields...),
		queryservice.WithLogger(a.logger),
	)
}
