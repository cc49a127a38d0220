/*
Package dsl constructs validated Libretto page trees.

It offers two layers. The composition factories (Scene, Page, Speaker, Popup,
Translation, Element) take a props struct, check every child against the
kind's containment class through the member package and either return the
node or a *domain.ValidationError. The fluent builder chains those factories
so pages can be declared in plain Go:

	page, err := dsl.NewPage("welcome").
		Scene("us", "uk", "arabic").
		Authoring("us").
		Generate(generate.Estimate(160)).
		Speaker("speaker1.png").
		Text("Hello, this is some ").
		Element("strong", nil, "text in the scene.").
		Popup("popup1.png", "This is a popup during the text.").
		Translation("arabic", domain.DirectionRTL, "مرحبًا، هذا بعض ", dsl.Must(dsl.Element(dsl.ElementProps{
			Tag: "strong", Children: "النص في المشهد.",
		}))).
		Page().
		Build()

An invalid child never enters a tree: Page accepts scenes only, Popup,
Translation and Element accept within-scene content only, and Scene accepts
within-scene content plus Translation boundaries.
*/
package dsl
