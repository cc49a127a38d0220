/*
Package domain contains the page tree model of Libretto.

It defines the node kinds, their containment classes, the generation contract
and the Storage handle threaded between scenes. This package is kept pure and
free of I/O; construction and validation live in the dsl package, traversal
in the runtime.

# Key Entities

  - Node: any tree value, tagged with a Kind (Text, Element, Speaker, Popup, Translation, Scene, Page).
  - Generator: the injected capability producing timestamped Tokens for one language.
  - Storage: opaque per-(scene, language) handle; History keeps them per language.
  - LifecycleHooks: callbacks fired around each (scene, language) render.
*/
package domain
