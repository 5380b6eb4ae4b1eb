package tokenstream_test

import (
	"testing"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/tokenstream"
	"github.com/stretchr/testify/require"
)

func strTok(enc, raw string) token.Token {
	return token.Token{Kind: token.StringLit, Encoding: enc, Raw: raw}
}

func TestStringMergerCompatibleEncodings(t *testing.T) {
	in := tokenstream.Slice([]token.Token{strTok("u8", "a"), strTok("", "b"), {Kind: token.Eof}})
	sink := diagnostics.NewCollectingSink()
	out := tokenstream.Collect(tokenstream.NewStringMerger(in, sink))
	require.False(t, sink.HasErrors())
	require.Equal(t, "ab", out[0].Raw)
	require.Equal(t, "u8", out[0].Encoding)
}

func TestStringMergerIncompatibleEncodingsError(t *testing.T) {
	in := tokenstream.Slice([]token.Token{strTok("u", "a"), strTok("U", "b"), {Kind: token.Eof}})
	sink := diagnostics.NewCollectingSink()
	tokenstream.Collect(tokenstream.NewStringMerger(in, sink))
	require.True(t, sink.HasErrors())
}

func TestNewlineMergerCollapsesAndDropsLeading(t *testing.T) {
	in := tokenstream.Slice([]token.Token{
		{Kind: token.Newline}, {Kind: token.Newline},
		{Kind: token.Identifier, Text: "a"},
		{Kind: token.Newline}, {Kind: token.Newline}, {Kind: token.Newline},
		{Kind: token.Identifier, Text: "b"},
		{Kind: token.Eof},
	})
	out := tokenstream.Collect(tokenstream.NewNewlineMerger(in))
	var kinds []token.Kind
	for _, tk := range out {
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []token.Kind{
		token.Identifier, token.Newline, token.Identifier, token.Eof,
	}, kinds)
}

func TestUnknownFilterDropsWhenEnabled(t *testing.T) {
	in := tokenstream.Slice([]token.Token{
		{Kind: token.Invalid}, {Kind: token.Identifier, Text: "a"}, {Kind: token.Eof},
	})
	sink := diagnostics.NewCollectingSink()
	out := tokenstream.Collect(tokenstream.NewUnknownFilter(in, sink, true))
	require.Len(t, out, 2)
	require.NotEmpty(t, sink.Diagnostics())
}
