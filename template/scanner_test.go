package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_TagsInDocumentOrder(t *testing.T) {
	markup := `
<ion-header>
  <ion-toolbar>
    <ion-title>My Component</ion-title>
  </ion-toolbar>
</ion-header>
<ion-content>
  <ion-list>
    <ion-item>
      <ion-label>My Item</ion-label>
    </ion-item>
  </ion-list>
</ion-content>
`
	refs, err := Scan(markup)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"ion-header", "ion-toolbar", "ion-title", "ion-content", "ion-list", "ion-item", "ion-label",
	}, refs.Tags)
	assert.Empty(t, refs.Icons)
}

func TestScan_DuplicatesCollapsedFirstOccurrenceWins(t *testing.T) {
	markup := `
<ion-list>
  <ion-item><ion-label>One</ion-label></ion-item>
  <ion-item><ion-label>Two</ion-label></ion-item>
</ion-list>
<ion-button>Go</ion-button>
`
	refs, err := Scan(markup)

	require.NoError(t, err)
	assert.Equal(t, []string{"ion-list", "ion-item", "ion-label", "ion-button"}, refs.Tags)
}

func TestScan_IconElementContributesTagAndIcon(t *testing.T) {
	refs, err := Scan(`<ion-icon name="logo-ionic"></ion-icon>`)

	require.NoError(t, err)
	assert.Equal(t, []string{"ion-icon"}, refs.Tags)
	assert.Equal(t, []string{"logo-ionic"}, refs.Icons)
}

func TestScan_IconsDeduplicatedByValue(t *testing.T) {
	markup := `
<ion-button><ion-icon name="heart"></ion-icon></ion-button>
<ion-icon name="logo-ionic"></ion-icon>
<ion-icon name="heart"></ion-icon>
<ion-icon ios="logo-apple" md="logo-android"></ion-icon>
`
	refs, err := Scan(markup)

	require.NoError(t, err)
	assert.Equal(t, []string{"ion-button", "ion-icon"}, refs.Tags)
	assert.Equal(t, []string{"heart", "logo-ionic", "logo-apple", "logo-android"}, refs.Icons)
}

func TestScan_StaticIconBinding(t *testing.T) {
	refs, err := Scan(`<ion-icon [name]="'add-circle'"></ion-icon>`)

	require.NoError(t, err)
	assert.Equal(t, []string{"add-circle"}, refs.Icons)
}

func TestScan_DynamicIconNamesIgnored(t *testing.T) {
	markup := `
<ion-icon [name]="iconName"></ion-icon>
<ion-icon name="{{ icon }}"></ion-icon>
`
	refs, err := Scan(markup)

	require.NoError(t, err)
	assert.Equal(t, []string{"ion-icon"}, refs.Tags)
	assert.Empty(t, refs.Icons)
}

func TestScan_NameAttributeOnOtherElementsIgnored(t *testing.T) {
	refs, err := Scan(`<ion-input name="email"></ion-input>`)

	require.NoError(t, err)
	assert.Equal(t, []string{"ion-input"}, refs.Tags)
	assert.Empty(t, refs.Icons)
}

func TestScan_AngularSyntax(t *testing.T) {
	markup := `
<ion-list *ngIf="items.length">
  <ion-item *ngFor="let item of items" (click)="open(item)" [detail]="true">
    {{ item.title }}
  </ion-item>
</ion-list>
`
	refs, err := Scan(markup)

	require.NoError(t, err)
	assert.Equal(t, []string{"ion-list", "ion-item"}, refs.Tags)
}

func TestScan_EmptyTemplate(t *testing.T) {
	refs, err := Scan("")

	require.NoError(t, err)
	assert.True(t, refs.Empty())
}
