package semanticTokens

import (
	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SemanticTokensFull handles the textDocument/semanticTokens/full request.
func SemanticTokensFull(req *types.RequestContext, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	file, ok := helpers.ResolveFile(req.Server, params.TextDocument.URI)
	if !ok {
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
	}
	tokens, err := file.Service.SemanticTokens(file.Path)
	if err != nil {
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, helpers.IgnoreMiss(err)
	}
	return &protocol.SemanticTokens{Data: encode(file, tokens)}, nil
}

// encode packs tokens into the relative five-integer form: line delta,
// start delta, length, type index and modifier bits.
func encode(file *helpers.File, tokens []service.SemanticToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevChar uint32
	for _, tok := range tokens {
		r := helpers.SpanToRange(file.Index, tok.Span)
		// Tokens never span lines.
		if r.End.Line != r.Start.Line || r.End.Character <= r.Start.Character {
			continue
		}
		deltaChar := r.Start.Character
		if r.Start.Line == prevLine {
			deltaChar -= prevChar
		}
		data = append(data,
			r.Start.Line-prevLine,
			deltaChar,
			r.End.Character-r.Start.Character,
			protocol.UInteger(tok.Type),
			0,
		)
		prevLine, prevChar = r.Start.Line, r.Start.Character
	}
	return data
}
