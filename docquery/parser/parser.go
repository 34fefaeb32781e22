package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/docquery-go/docquery"
	"github.com/AntonStoeckl/docquery-go/docquery/literal"
)

const (
	DefaultCollection = "alarm_info"

	keywordDB    = "db"
	keywordCount = "count"
	keywordFind  = "find"
	keywordSort  = "sort"
	keywordLimit = "limit"

	emptyObject = "{}"

	logMsgStatementParsed   = "statement parsed"
	logMsgStatementRejected = "statement rejected"
	logAttrStatement        = "statement"
	logAttrPlan             = "plan"
	logAttrError            = "error"
)

// Parser converts raw statements into query plans for exactly one configured collection.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	collection string
	mode       ExtractionMode
	logger     docquery.Logger
}

// New creates a Parser for DefaultCollection in ExtractionLegacy mode with optional configuration.
func New(options ...Option) (Parser, error) {
	p := Parser{
		collection: DefaultCollection,
		mode:       ExtractionLegacy,
	}

	for _, option := range options {
		if err := option(&p); err != nil {
			return Parser{}, err
		}
	}

	return p, nil
}

// Collection returns the collection name statements must address.
func (p Parser) Collection() string {
	return p.collection
}

// Parse converts raw into a QueryPlan.
//
// Errors wrap docquery.ErrUnsupportedStatement, docquery.ErrInvalidFilterSyntax,
// docquery.ErrInvalidSortSyntax, or docquery.ErrInvalidLimitValue.
func (p Parser) Parse(raw string) (docquery.QueryPlan, error) {
	plan, err := p.parse(raw)
	if err != nil {
		p.logDebug(logMsgStatementRejected, logAttrStatement, raw, logAttrError, err.Error())
		return docquery.QueryPlan{}, err
	}

	p.logDebug(logMsgStatementParsed, logAttrStatement, raw, logAttrPlan, plan.String())

	return plan, nil
}

func (p Parser) parse(raw string) (docquery.QueryPlan, error) {
	s := newScanner(strings.TrimSpace(raw), p.mode)
	unsupported := fmt.Errorf("%w: %s", docquery.ErrUnsupportedStatement, raw)

	method, ok := p.parseTarget(s)
	if !ok {
		return docquery.QueryPlan{}, unsupported
	}

	args := s.next()
	if args.kind != tokenArgs {
		return docquery.QueryPlan{}, unsupported
	}

	var plan docquery.QueryPlan

	switch strings.ToLower(method) {
	case keywordCount:
		if strings.TrimSpace(args.text) != "" {
			return docquery.QueryPlan{}, unsupported
		}

		if s.next().kind != tokenEOF {
			return docquery.QueryPlan{}, unsupported
		}

		return docquery.CountPlan(), nil

	case keywordFind:
		filter, err := parseFilter(args.text)
		if err != nil {
			return docquery.QueryPlan{}, err
		}

		plan = docquery.FindPlan(filter)

	default:
		return docquery.QueryPlan{}, unsupported
	}

	return p.parseChain(s, plan, unsupported)
}

// parseTarget consumes "[db.]<collection>.<method>" and returns the method name.
func (p Parser) parseTarget(s *scanner) (string, bool) {
	var path []string

	for {
		ident := s.next()
		if ident.kind != tokenIdent {
			return "", false
		}

		path = append(path, ident.text)

		if len(path) == 3 {
			break
		}

		if peek := *s; peek.next().kind == tokenArgs {
			break
		}

		if s.next().kind != tokenDot {
			return "", false
		}
	}

	switch len(path) {
	case 2:
		if !strings.EqualFold(path[0], p.collection) {
			return "", false
		}
	case 3:
		if !strings.EqualFold(path[0], keywordDB) || !strings.EqualFold(path[1], p.collection) {
			return "", false
		}
	default:
		return "", false
	}

	return path[len(path)-1], true
}

func (p Parser) parseChain(s *scanner, plan docquery.QueryPlan, unsupported error) (docquery.QueryPlan, error) {
	var sorted, limited bool

	for {
		switch s.next().kind {
		case tokenEOF:
			return plan, nil
		case tokenDot:
		default:
			return docquery.QueryPlan{}, unsupported
		}

		method := s.next()
		args := s.next()

		if method.kind != tokenIdent || args.kind != tokenArgs {
			return docquery.QueryPlan{}, unsupported
		}

		switch strings.ToLower(method.text) {
		case keywordSort:
			if sorted {
				return docquery.QueryPlan{}, unsupported
			}
			sorted = true

			order, present, err := parseSort(args.text)
			if err != nil {
				return docquery.QueryPlan{}, err
			}

			if present {
				plan = plan.SortedBy(order)
			}

		case keywordLimit:
			if limited {
				return docquery.QueryPlan{}, unsupported
			}
			limited = true

			n, err := parseLimit(args.text)
			if err != nil {
				return docquery.QueryPlan{}, err
			}

			plan = plan.LimitedTo(n)

		default:
			return docquery.QueryPlan{}, unsupported
		}
	}
}

func parseFilter(arg string) (docquery.Document, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || arg == emptyObject {
		return docquery.Document{}, nil
	}

	filter, err := literal.DecodeLenient(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", docquery.ErrInvalidFilterSyntax, arg, err)
	}

	return filter, nil
}

// parseSort returns false if the argument requests no ordering.
func parseSort(arg string) (docquery.Document, bool, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || arg == emptyObject {
		return nil, false, nil
	}

	order, err := literal.DecodeLenient(arg)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", docquery.ErrInvalidSortSyntax, arg, err)
	}

	return order, !order.IsEmpty(), nil
}

func parseLimit(arg string) (int64, error) {
	arg = strings.TrimSpace(arg)

	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", docquery.ErrInvalidLimitValue, arg)
	}

	return n, nil
}

func (p Parser) logDebug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
