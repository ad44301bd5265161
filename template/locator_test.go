package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/ngstandalone/project"
)

type fakeDeclaration struct {
	inline    string
	hasInline bool
	url       string
	hasURL    bool
}

func (d fakeDeclaration) InlineTemplate() (string, bool) {
	return d.inline, d.hasInline
}

func (d fakeDeclaration) TemplateURL() (string, bool) {
	return d.url, d.hasURL
}

func TestLocate_InlineTemplate(t *testing.T) {
	p := project.NewInMemory(nil)
	decl := fakeDeclaration{inline: "\n  <ion-app></ion-app>\n", hasInline: true}

	source, ok, err := Locate(decl, "src/app.component.ts", p.Read)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Inline, source.Kind)
	assert.Equal(t, "\n  <ion-app></ion-app>\n", source.Text)
}

func TestLocate_ExternalTemplateRelativeToComponent(t *testing.T) {
	p := project.NewInMemory(map[string]string{
		"src/app/home/home.page.html": "<ion-content></ion-content>",
	})
	decl := fakeDeclaration{url: "./home.page.html", hasURL: true}

	source, ok, err := Locate(decl, "src/app/home/home.page.ts", p.Read)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, External, source.Kind)
	assert.Equal(t, "src/app/home/home.page.html", source.OriginPath)
	assert.Equal(t, "<ion-content></ion-content>", source.Text)
}

func TestLocate_ExternalTemplateFallsBackToSiblingFile(t *testing.T) {
	p := project.NewInMemory(map[string]string{
		"foo.component.html": "<ion-header></ion-header>",
	})
	decl := fakeDeclaration{url: "./my-component.component.html", hasURL: true}

	source, ok, err := Locate(decl, "foo.component.ts", p.Read)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "foo.component.html", source.OriginPath)
}

func TestLocate_MissingTemplate(t *testing.T) {
	p := project.NewInMemory(nil)
	decl := fakeDeclaration{url: "../shared/missing.html", hasURL: true}

	_, ok, err := Locate(decl, "src/app/foo.component.ts", p.Read)

	assert.True(t, ok)
	assert.True(t, errors.Is(err, ErrMissingTemplate))
}

func TestLocate_NoTemplateProperty(t *testing.T) {
	p := project.NewInMemory(nil)

	_, ok, err := Locate(fakeDeclaration{}, "foo.component.ts", p.Read)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveTemplatePath(t *testing.T) {
	assert.Equal(t, "src/shared/card.html", ResolveTemplatePath("src/app/foo.ts", "../shared/card.html"))
	assert.Equal(t, "card.html", ResolveTemplatePath("foo.ts", "./card.html"))
}
