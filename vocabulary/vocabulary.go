package vocabulary

import (
	"sort"
	"strings"
)

// StandaloneModule is the module every Ionic standalone component is exported from.
const StandaloneModule = "@ionic/angular/standalone"

// TagEntry maps a markup tag to the symbol that must be imported for it.
type TagEntry struct {
	TagName    string
	Symbol     string
	ModulePath string
}

// standaloneTags lists the Ionic web components that Angular exposes as
// standalone components.
var standaloneTags = []string{
	"ion-accordion",
	"ion-accordion-group",
	"ion-action-sheet",
	"ion-alert",
	"ion-app",
	"ion-avatar",
	"ion-back-button",
	"ion-backdrop",
	"ion-badge",
	"ion-breadcrumb",
	"ion-breadcrumbs",
	"ion-button",
	"ion-buttons",
	"ion-card",
	"ion-card-content",
	"ion-card-header",
	"ion-card-subtitle",
	"ion-card-title",
	"ion-checkbox",
	"ion-chip",
	"ion-col",
	"ion-content",
	"ion-datetime",
	"ion-datetime-button",
	"ion-fab",
	"ion-fab-button",
	"ion-fab-list",
	"ion-footer",
	"ion-grid",
	"ion-header",
	"ion-icon",
	"ion-img",
	"ion-infinite-scroll",
	"ion-infinite-scroll-content",
	"ion-input",
	"ion-item",
	"ion-item-divider",
	"ion-item-group",
	"ion-item-option",
	"ion-item-options",
	"ion-item-sliding",
	"ion-label",
	"ion-list",
	"ion-list-header",
	"ion-loading",
	"ion-menu",
	"ion-menu-button",
	"ion-menu-toggle",
	"ion-modal",
	"ion-nav",
	"ion-nav-link",
	"ion-note",
	"ion-picker",
	"ion-popover",
	"ion-progress-bar",
	"ion-radio",
	"ion-radio-group",
	"ion-range",
	"ion-refresher",
	"ion-refresher-content",
	"ion-reorder",
	"ion-reorder-group",
	"ion-ripple-effect",
	"ion-router-outlet",
	"ion-row",
	"ion-searchbar",
	"ion-segment",
	"ion-segment-button",
	"ion-select",
	"ion-select-option",
	"ion-skeleton-text",
	"ion-spinner",
	"ion-split-pane",
	"ion-tab",
	"ion-tab-bar",
	"ion-tab-button",
	"ion-tabs",
	"ion-text",
	"ion-textarea",
	"ion-thumbnail",
	"ion-title",
	"ion-toast",
	"ion-toggle",
	"ion-toolbar",
}

var entries = buildEntries(standaloneTags)

func buildEntries(tags []string) map[string]TagEntry {
	result := make(map[string]TagEntry, len(tags))
	for _, tag := range tags {
		result[tag] = TagEntry{
			TagName:    tag,
			Symbol:     symbolForTag(tag),
			ModulePath: StandaloneModule,
		}
	}
	return result
}

// symbolForTag converts "ion-card-title" into "IonCardTitle".
func symbolForTag(tag string) string {
	var b strings.Builder
	for _, segment := range strings.Split(tag, "-") {
		if segment == "" {
			continue
		}
		b.WriteString(strings.ToUpper(segment[:1]))
		b.WriteString(segment[1:])
	}
	return b.String()
}

// Lookup returns the vocabulary entry for a tag. The match is exact and
// case-sensitive; unknown tags report false.
func Lookup(tagName string) (TagEntry, bool) {
	entry, ok := entries[tagName]
	return entry, ok
}

// Entries returns a copy of the vocabulary sorted by tag name.
func Entries() []TagEntry {
	result := make([]TagEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TagName < result[j].TagName
	})
	return result
}
