package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestValidateDocumentAndKindMustPair(t *testing.T) {
	r := &Request{Document: "main.go"}
	err := r.Validate()
	require.Error(t, err)
	var ir *InvalidRequestError
	require.ErrorAs(t, err, &ir)
}

func TestRequestValidateKindWithoutDocument(t *testing.T) {
	r := &Request{Kind: AnalysisKindSyntax}
	require.Error(t, r.Validate())
}

func TestRequestValidateSpanRequiresDocument(t *testing.T) {
	r := &Request{Span: &TextSpan{Start: 0, End: 1}}
	require.Error(t, r.Validate())
}

func TestRequestValidateWholeProjectIsFine(t *testing.T) {
	r := &Request{}
	require.NoError(t, r.Validate())
	require.False(t, r.DocumentPresent())
}

func TestRequestValidateDocumentScopedIsFine(t *testing.T) {
	r := &Request{Document: "main.go", Kind: AnalysisKindSemantic, Span: &TextSpan{Start: 0, End: 5}}
	require.NoError(t, r.Validate())
	require.True(t, r.DocumentPresent())
}
