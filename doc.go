/*
Package libretto renders multilingual narrated pages.

A page is a tree of typed nodes: a Page holds Scenes, and a Scene holds text,
markup elements, speaker images, popups and per-language Translations. Trees
are built through the factories and builder in package dsl (or compiled from
YAML/JSON documents with LoadPage), and every node is validated when it is
composed: an invalid child never enters the tree.

Rendering walks the scenes in order and, inside each scene, the declared
languages in order. Each (scene, language) pair gets a fresh Storage handle;
the previous handle of the same language is passed along, so a generator can
continue where the last scene stopped. Pairs are rendered one at a time.

# Usage

	page, err := dsl.NewPage("intro").
		Scene("en", "fr").
		Generate(generate.Estimate(150)).
		Speaker("narrator.png").
		Text("Hello and welcome.").
		Translation("fr", "", "Bonjour et bienvenue.").
		Page().
		Build()
	if err != nil {
		log.Fatal(err)
	}

	eng := libretto.New()
	history, err := eng.RenderPage(ctx, page, func(scene int, lang string, out domain.Output) {
		fmt.Println(scene, lang, out)
	})

A generator's error aborts the page render and is returned unchanged, so
callers can compare it with errors.Is.
*/
package libretto
