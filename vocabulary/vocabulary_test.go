package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownTag(t *testing.T) {
	entry, ok := Lookup("ion-card-title")

	require.True(t, ok)
	assert.Equal(t, "ion-card-title", entry.TagName)
	assert.Equal(t, "IonCardTitle", entry.Symbol)
	assert.Equal(t, "@ionic/angular/standalone", entry.ModulePath)
}

func TestLookup_UnknownTag(t *testing.T) {
	_, ok := Lookup("my-widget")
	assert.False(t, ok)

	_, ok = Lookup("div")
	assert.False(t, ok)
}

func TestLookup_IsCaseSensitive(t *testing.T) {
	_, ok := Lookup("ION-BUTTON")
	assert.False(t, ok)
}

func TestEntries_SortedAndUnique(t *testing.T) {
	all := Entries()

	require.Len(t, all, len(standaloneTags))
	seen := make(map[string]bool)
	for i, entry := range all {
		assert.False(t, seen[entry.TagName], "duplicate tag %s", entry.TagName)
		seen[entry.TagName] = true
		if i > 0 {
			assert.Less(t, all[i-1].TagName, entry.TagName)
		}
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	all := Entries()
	all[0].Symbol = "Changed"

	entry, ok := Lookup(all[0].TagName)
	require.True(t, ok)
	assert.NotEqual(t, "Changed", entry.Symbol)
}

func TestSymbolForTag(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{tag: "ion-header", want: "IonHeader"},
		{tag: "ion-infinite-scroll-content", want: "IonInfiniteScrollContent"},
		{tag: "ion-fab", want: "IonFab"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, symbolForTag(tt.tag))
		})
	}
}
