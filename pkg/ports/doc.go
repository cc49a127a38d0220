/*
Package ports defines the driven ports (interfaces) for the Libretto engine.

These interfaces decouple the render traversal from external implementations,
allowing it to persist results to various backends and to coordinate with
other processes.

# Key Interfaces

  - OutputStore: persists the output of each (scene, language) render (memory, file, Redis).
  - Locker: provides distributed locking so a page is rendered by one process at a time.
*/
package ports
