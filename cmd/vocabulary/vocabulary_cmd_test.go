package vocabulary

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestVocabularyCommand_PrintsEntries(t *testing.T) {
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	g := goldie.New(t)
	g.Assert(t, t.Name(), out.Bytes())
}

func TestVocabularyCommand_RejectsArguments(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ion-button"})

	require.Error(t, cmd.Execute())
}
