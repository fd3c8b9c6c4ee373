package usecase

import (
	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/pkg/filterexpr"
)

// wordFilterSchema whitelists the fields a list filter may reference, e.g.
//
//	lang_src in ['en', 'fr'] && errors >= 2
//	keyword == 'bonjour' && last_review <= timestamp('2025-06-01T00:00:00Z')
var wordFilterSchema = filterexpr.Schema{
	Fields: map[string]filterexpr.FieldRule{
		"lang_src": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "SrcLanguages",
				filterexpr.OpIN: "SrcLanguages",
			},
		},
		"lang_tgt": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "TgtLanguages",
				filterexpr.OpIN: "TgtLanguages",
			},
		},
		"errors": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "ErrorsMin",
				filterexpr.OpLTE: "ErrorsMax",
			},
		},
		"last_review": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "ReviewedFrom",
				filterexpr.OpLTE: "ReviewedTo",
			},
		},
		"keyword": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Keyword",
			},
		},
	},
}

// ParseWordFilter binds a CEL filter string onto an entity.Filters value.
// An empty filter yields the zero Filters, which matches everything.
func ParseWordFilter(filter string) (entity.Filters, error) {
	var filters entity.Filters
	if err := filterexpr.BindCELTo(filter, &filters, wordFilterSchema); err != nil {
		return entity.Filters{}, err
	}
	return filters, nil
}
