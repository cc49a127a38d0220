package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/libretto/pkg/domain"
)

// narration collects the tokens a scene speaks in the given language.
// Translation children for the language win; otherwise the scene's own text
// is used, translated first when the language is not the authoring one and
// the scene can translate.
func (e *Engine) narration(ctx context.Context, sc *domain.Scene, language string) ([]string, error) {
	tokens := NarrationFor(sc, language)
	if len(sc.Translations(language)) > 0 || language == sc.Authoring() || sc.Translate == nil || len(tokens) == 0 {
		return tokens, nil
	}

	translated, err := sc.Translate(ctx, sc.Authoring(), language, tokens...)
	if err != nil {
		return nil, err
	}
	return translated, nil
}

// NarrationFor exposes the token sourcing used by RenderScene, without
// translation, for previews (outline, export).
func NarrationFor(sc *domain.Scene, language string) []string {
	if trs := sc.Translations(language); len(trs) > 0 {
		var tokens []string
		for _, tr := range trs {
			tokens = collectText(tokens, tr.Children)
		}
		return tokens
	}
	return collectText(nil, sc.Children)
}

// collectText appends whitespace-collapsed text depth-first. Speakers and
// popups are visual and contribute nothing; translations are handled by the
// caller.
func collectText(dst []string, nodes []domain.Node) []string {
	for _, n := range nodes {
		switch v := n.(type) {
		case domain.Text:
			if s := strings.Join(strings.Fields(string(v)), " "); s != "" {
				dst = append(dst, s)
			}
		case *domain.Element:
			if v != nil {
				dst = collectText(dst, v.Children)
			}
		}
	}
	return dst
}

func sinkPath(pattern string, scene int, language string) string {
	if pattern == "" {
		return ""
	}
	return strings.NewReplacer(
		"{scene}", strconv.Itoa(scene),
		"{language}", language,
	).Replace(pattern)
}

// sceneLabel is used in log lines and wrapped errors.
func sceneLabel(index int, language string) string {
	return fmt.Sprintf("scene %d (%s)", index, language)
}
