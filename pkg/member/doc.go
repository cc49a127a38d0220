// Package member answers "is this value one of these node kinds".
//
// Every dsl factory expresses its containment rule as a list of Groups and
// asks Annotate for a per-child verdict, so the rules live in one place
// (domain.WithinScene, domain.SceneBoundaries, domain.Scenes) and are consumed
// many times:
//
//	within := member.NewGroup(domain.WithinScene...)
//	bounds := member.NewGroup(domain.SceneBoundaries...)
//	for _, a := range member.Annotate(member.Norm(children), within, bounds) {
//	    if !a.Matched {
//	        // reject or convert a.Item
//	    }
//	}
//
// Matching is by the node's Kind tag only; no reflection is involved.
package member
